// Package policy decides whether an authenticated actor may perform an action
// on a chat, a message or a user profile. It performs no I/O: callers load the
// targets and pass them in.
package policy

import (
	"github.com/sbilibin2017/restchat/internal/errs"
	"github.com/sbilibin2017/restchat/internal/models"
)

// Action identifies a guarded operation.
type Action int

const (
	ViewChat Action = iota
	ListChatMessages
	ListChatMembers
	PostMessage
	RenameChat
	AddMember
	RemoveMember
	EditMessage
	DeleteMessage
	UpdateProfile
)

// Denial reasons.
const (
	reasonViewChat    = "requires permission to view chat"
	reasonEditChat    = "requires permission to edit chat"
	reasonEditMembers = "requires permission to edit chat members"
	reasonEditMessage = "requires permission to edit message"
	reasonEditProfile = "requires permission to edit user"
	reasonOwnerRemove = "owner of a chat cannot be removed"
)

// Target carries the loaded entities an action applies to.
// Only the fields relevant to the action need to be set.
type Target struct {
	Chat          *models.Chat    // chat actions
	ActorIsMember bool            // membership of the actor in Chat
	SubjectUserID int64           // user added to or removed from Chat, or the profile owner
	Message       *models.Message // message actions
}

func (a Action) String() string {
	switch a {
	case ViewChat:
		return "view_chat"
	case ListChatMessages:
		return "list_chat_messages"
	case ListChatMembers:
		return "list_chat_members"
	case PostMessage:
		return "post_message"
	case RenameChat:
		return "rename_chat"
	case AddMember:
		return "add_member"
	case RemoveMember:
		return "remove_member"
	case EditMessage:
		return "edit_message"
	case DeleteMessage:
		return "delete_message"
	case UpdateProfile:
		return "update_profile"
	default:
		return "unknown"
	}
}

// Check returns nil when actorID may perform action on target, and an
// *errs.NoPermissionError or *errs.InvalidStateError otherwise.
// Unknown actions and missing targets are denied.
func Check(actorID int64, action Action, target Target) error {
	switch action {
	case ViewChat, ListChatMessages, ListChatMembers, PostMessage:
		if target.Chat == nil || !target.ActorIsMember {
			return errs.NoPermission(reasonViewChat)
		}
		return nil

	case RenameChat:
		if !isOwner(actorID, target.Chat) {
			return errs.NoPermission(reasonEditChat)
		}
		return nil

	case AddMember:
		if !isOwner(actorID, target.Chat) {
			return errs.NoPermission(reasonEditMembers)
		}
		return nil

	case RemoveMember:
		// The owner gate comes first so that non-owners never learn about the
		// owner-removal rule.
		if !isOwner(actorID, target.Chat) {
			return errs.NoPermission(reasonEditMembers)
		}
		if target.SubjectUserID == target.Chat.OwnerID {
			return errs.InvalidState(reasonOwnerRemove)
		}
		return nil

	case EditMessage, DeleteMessage:
		if target.Message == nil || target.Message.AuthorID != actorID {
			return errs.NoPermission(reasonEditMessage)
		}
		return nil

	case UpdateProfile:
		if target.SubjectUserID != actorID {
			return errs.NoPermission(reasonEditProfile)
		}
		return nil
	}

	return errs.NoPermission("unknown action " + action.String())
}

func isOwner(actorID int64, chat *models.Chat) bool {
	return chat != nil && chat.OwnerID == actorID
}
