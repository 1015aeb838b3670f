package game

import (
	"encoding/json"

	"github.com/rs/zerolog/log"
	"github.com/scythe504/typing-hub-backend/internal"
)

type commandEvent struct {
	client *Client
	msg    internal.Message[json.RawMessage]
}

// decode unmarshals an optional payload. A missing payload leaves v untouched.
func decode(raw json.RawMessage, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, v)
}

func (e commandEvent) apply(h *Hub) {
	c, msg := e.client, e.msg
	if _, ok := h.clients[c.id]; !ok {
		return
	}

	log.Debug().Str("conn_id", c.id).Str("type", msg.Type).Msg("[Hub] command received")

	switch msg.Type {
	case internal.TypeLogin:
		var data internal.LoginData
		if err := decode(msg.Data, &data); err != nil {
			log.Warn().Err(err).Str("conn_id", c.id).Msg("[Hub] bad login payload")
			return
		}
		h.handleLogin(c, data.Name)
		return
	case internal.TypeQuickJoin:
		h.handleQuickJoin(c)
		return
	}

	user, ok := h.users[c.id]
	if !ok {
		switch msg.Type {
		case internal.TypePopBalloon, internal.TypeBalloonMissed, internal.TypeLeaveRoom:
		default:
			h.sendError(c.id, ErrSessionExpired)
		}
		return
	}

	switch msg.Type {
	case internal.TypeCreateRoom:
		h.handleCreateRoom(user)

	case internal.TypeJoinRoom:
		var roomID string
		if err := decode(msg.Data, &roomID); err != nil {
			log.Warn().Err(err).Str("conn_id", c.id).Msg("[Hub] bad join-room payload")
			return
		}
		h.handleJoinRoom(user, roomID)

	case internal.TypeReady:
		h.handleReady(user)

	case internal.TypeKickPlayer:
		var targetID string
		if err := decode(msg.Data, &targetID); err != nil {
			log.Warn().Err(err).Str("conn_id", c.id).Msg("[Hub] bad kick-player payload")
			return
		}
		h.handleKick(user, targetID)

	case internal.TypeChangeLanguage:
		var lang internal.Language
		if err := decode(msg.Data, &lang); err != nil {
			log.Warn().Err(err).Str("conn_id", c.id).Msg("[Hub] bad change-language payload")
			return
		}
		h.handleChangeLanguage(user, lang)

	case internal.TypeStartGame:
		h.handleStartGame(user)

	case internal.TypePopBalloon:
		var data internal.PopBalloonData
		if err := decode(msg.Data, &data); err != nil {
			log.Warn().Err(err).Str("conn_id", c.id).Msg("[Hub] bad pop-balloon payload")
			return
		}
		h.handlePopBalloon(user, data)

	case internal.TypeBalloonMissed:
		var data internal.BalloonMissedData
		if err := decode(msg.Data, &data); err != nil {
			log.Warn().Err(err).Str("conn_id", c.id).Msg("[Hub] bad balloon-missed payload")
			return
		}
		h.handleBalloonMissed(user, data)

	case internal.TypeLeaveRoom:
		h.handleLeaveRoom(user)

	case internal.TypePlayAgain:
		h.handlePlayAgain(user)

	default:
		log.Warn().Str("conn_id", c.id).Str("type", msg.Type).Msg("[Hub] unknown message type")
	}
}
