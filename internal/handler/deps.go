package handler

import (
	"glyphchat/internal/app/chat"
	"glyphchat/internal/app/relay"
	"glyphchat/internal/configs"
)

// AppDeps bundles the collaborators the HTTP handlers need.
type AppDeps struct {
	Relay  *relay.Service
	Hub    *chat.Hub
	Config *configs.AppConfig
}
