package chat

import (
	"errors"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// timeLayout renders message timestamps as a wall-clock string, e.g.
// "3:04:05 PM".
const timeLayout = "3:04:05 PM"

type IChatService interface {
	Connected(connID string)
	JoinRoom(connID, username, roomName string) error
	CreateRoom(roomName string) error
	SwitchRoom(connID, newRoom string) error
	SendMessage(connID, text string) error
	PrivateMessage(connID, targetUsername, text string) error
	Typing(connID string, isTyping bool) error
	Disconnected(connID string)
}

// chatService routes inbound chat events: it consults and mutates the
// Registry, then commands the Notifier to emit events to one connection or
// to a membership snapshot. Session-guarded operations silently drop when
// the connection never joined; those conditions are steady state, not
// faults.
type chatService struct {
	reg      *Registry
	notifier Notifier
	now      func() time.Time
}

func NewChatService(reg *Registry, notifier Notifier) IChatService {
	return &chatService{
		reg:      reg,
		notifier: notifier,
		now:      time.Now,
	}
}

// Connected pushes the current room list to a freshly accepted connection.
func (svc *chatService) Connected(connID string) {
	svc.notifier.Send(connID, EventRoomList, svc.reg.RoomNames())
}

// JoinRoom binds the connection to a room and announces the arrival to the
// whole room, joiner included. The joiner additionally receives its session
// confirmation and the refreshed room list, since the join may have created
// the room implicitly.
func (svc *chatService) JoinRoom(connID, username, roomName string) error {
	sess, members, err := svc.reg.Join(connID, username, roomName)
	if err != nil {
		return err
	}

	svc.notifier.Send(connID, EventJoinedRoom, sess)
	svc.notifier.Send(connID, EventRoomList, svc.reg.RoomNames())
	svc.notifier.Broadcast(members, EventUserJoined, Presence{
		Username: username,
		Message:  username + " has joined the room",
	})

	zap.L().Info("chat.join",
		zap.String("conn_id", connID),
		zap.String("username", username),
		zap.String("room", roomName),
	)
	return nil
}

// CreateRoom registers a room and pushes the refreshed room list to every
// connected client. Duplicate names are a no-op with no broadcast.
func (svc *chatService) CreateRoom(roomName string) error {
	names, err := svc.reg.CreateRoom(roomName)
	if err != nil {
		if errors.Is(err, ErrRoomExists) {
			zap.L().Debug("chat.create_room_exists", zap.String("room", roomName))
		}
		return err
	}

	svc.notifier.BroadcastAll(EventRoomList, names)
	zap.L().Info("chat.create_room", zap.String("room", roomName))
	return nil
}

// SwitchRoom moves the connection's session to another room: user_left to
// the old room's remaining members, user_joined to the new room including
// the switcher. No session, no broadcast.
func (svc *chatService) SwitchRoom(connID, newRoom string) error {
	prev, cur, oldMembers, newMembers, err := svc.reg.Switch(connID, newRoom)
	if err != nil {
		return err
	}

	svc.notifier.Broadcast(oldMembers, EventUserLeft, Presence{
		Username: prev.Username,
		Message:  prev.Username + " has left the room",
	})
	svc.notifier.Send(connID, EventJoinedRoom, cur)
	svc.notifier.Send(connID, EventRoomList, svc.reg.RoomNames())
	svc.notifier.Broadcast(newMembers, EventUserJoined, Presence{
		Username: cur.Username,
		Message:  cur.Username + " has joined the room",
	})

	zap.L().Info("chat.switch_room",
		zap.String("conn_id", connID),
		zap.String("from", prev.Room),
		zap.String("to", newRoom),
	)
	return nil
}

// SendMessage fans a message out to every member of the sender's current
// room, sender included. The timestamp is server-assigned.
func (svc *chatService) SendMessage(connID, text string) error {
	sess, ok := svc.reg.SessionOf(connID)
	if !ok {
		return ErrNoActiveSession
	}

	svc.notifier.Broadcast(svc.reg.Members(sess.Room), EventReceiveMessage, RoomMessage{
		Username: sess.Username,
		Message:  text,
		Time:     svc.now().Format(timeLayout),
	})
	return nil
}

// PrivateMessage delivers a point-to-point message to the connection
// currently bound to targetUsername. Resolution is global across rooms; an
// unknown target drops the message silently. Duplicate usernames resolve to
// an arbitrary match, uniqueness is not enforced anywhere.
func (svc *chatService) PrivateMessage(connID, targetUsername, text string) error {
	sess, ok := svc.reg.SessionOf(connID)
	if !ok {
		return ErrNoActiveSession
	}
	targetID, ok := svc.reg.ConnByUsername(targetUsername)
	if !ok {
		zap.L().Debug("chat.private_target_missing",
			zap.String("from", sess.Username),
			zap.String("target", targetUsername),
		)
		return ErrTargetNotFound
	}

	svc.notifier.Send(targetID, EventPrivateMessage, DirectMessage{
		From:    sess.Username,
		Message: text,
		Time:    svc.now().Format(timeLayout),
	})
	return nil
}

// Typing forwards the indicator to the rest of the sender's room. Typing
// events are never echoed back to their originator.
func (svc *chatService) Typing(connID string, isTyping bool) error {
	sess, ok := svc.reg.SessionOf(connID)
	if !ok {
		return ErrNoActiveSession
	}

	recipients := lo.Without(svc.reg.Members(sess.Room), connID)
	svc.notifier.Broadcast(recipients, EventUserTyping, TypingState{
		Username: sess.Username,
		IsTyping: isTyping,
	})
	return nil
}

// Disconnected tears the session down and tells the room. Idempotent, and a
// no-op for connections that never joined.
func (svc *chatService) Disconnected(connID string) {
	sess, members, ok := svc.reg.Leave(connID)
	if !ok {
		return
	}

	svc.notifier.Broadcast(members, EventUserLeft, Presence{
		Username: sess.Username,
		Message:  sess.Username + " has left the room",
	})

	zap.L().Info("chat.leave",
		zap.String("conn_id", connID),
		zap.String("username", sess.Username),
		zap.String("room", sess.Room),
	)
}
