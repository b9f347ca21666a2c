//go:generate go run go.uber.org/mock/mockgen -source=chat_service.go -destination=../mocks/mock_chat_service.go -package=mocks
package services

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"chat-hub/domain"
	"chat-hub/domain/mimetypes"
	"chat-hub/errors"
	"chat-hub/moderation"
	"chat-hub/repositories"

	"github.com/gabriel-vasile/mimetype"
)

type IChatService interface {
	SendPrivate(ctx context.Context, actorID, otherID, content string) (domain.Message, error)
	SendGroup(ctx context.Context, actorID, groupID, content string) (domain.Message, error)
	SendPrivateAttachment(ctx context.Context, actorID, otherID, ref string) (domain.Message, error)
	SendGroupAttachment(ctx context.Context, actorID, groupID, ref string) (domain.Message, error)
	ListPrivate(ctx context.Context, actorID, otherID string) ([]domain.Message, error)
	ListGroup(ctx context.Context, actorID, groupID string) ([]domain.Message, error)
	SearchPrivate(ctx context.Context, actorID, otherID, terms string) ([]domain.Message, error)
	SearchGroup(ctx context.Context, actorID, groupID, terms string) ([]domain.Message, error)
}

// ChatService composes the guard, the directory and the conversation
// store into the message surface. Every call passes the AccessGuard
// before touching any log.
type ChatService struct {
	messages    repositories.IMessageRepository
	users       repositories.IUserRepository
	guard       IAccessGuard
	censor      *moderation.Censor
	uploadDir   string
	searchLimit int
	log         *slog.Logger
}

func NewChatService(messages repositories.IMessageRepository, users repositories.IUserRepository,
	guard IAccessGuard, censor *moderation.Censor, uploadDir string, searchLimit int,
	log *slog.Logger) *ChatService {
	return &ChatService{
		messages:    messages,
		users:       users,
		guard:       guard,
		censor:      censor,
		uploadDir:   uploadDir,
		searchLimit: searchLimit,
		log:         log,
	}
}

// SendPrivate appends a text message to the 1:1 log shared with the
// counterpart. The counterpart only needs to exist; a banned counterpart
// can still be written to, they just cannot read or answer.
func (s *ChatService) SendPrivate(_ context.Context, actorID, otherID, content string) (domain.Message, error) {
	if err := s.guard.Authorize(actorID, ApplicationScope()); err != nil {
		return domain.Message{}, err
	}
	if _, err := s.users.Get(otherID); err != nil {
		return domain.Message{}, err
	}
	content, err := s.vetContent(content)
	if err != nil {
		return domain.Message{}, err
	}

	return s.messages.Append(domain.Message{
		ChatType: domain.ChatPrivate,
		SenderID: actorID,
		TargetID: otherID,
		Content:  content,
	})
}

// SendGroup appends a text message to the group log. Membership is the
// write permission; a deleted group no longer authorizes any writes.
func (s *ChatService) SendGroup(_ context.Context, actorID, groupID, content string) (domain.Message, error) {
	if err := s.guard.Authorize(actorID, GroupScope(groupID)); err != nil {
		return domain.Message{}, err
	}
	content, err := s.vetContent(content)
	if err != nil {
		return domain.Message{}, err
	}

	return s.messages.Append(domain.Message{
		ChatType: domain.ChatGroup,
		SenderID: actorID,
		TargetID: groupID,
		Content:  content,
	})
}

// SendPrivateAttachment stores a reference to an already-uploaded file.
// The bytes themselves belong to the file-storage collaborator; the
// conversation log only ever sees the opaque reference.
func (s *ChatService) SendPrivateAttachment(_ context.Context, actorID, otherID, ref string) (domain.Message, error) {
	if err := s.guard.Authorize(actorID, ApplicationScope()); err != nil {
		return domain.Message{}, err
	}
	if _, err := s.users.Get(otherID); err != nil {
		return domain.Message{}, err
	}
	if err := s.vetAttachment(ref); err != nil {
		return domain.Message{}, err
	}

	return s.messages.Append(domain.Message{
		ChatType:     domain.ChatPrivate,
		SenderID:     actorID,
		TargetID:     otherID,
		Content:      ref,
		IsAttachment: true,
	})
}

func (s *ChatService) SendGroupAttachment(_ context.Context, actorID, groupID, ref string) (domain.Message, error) {
	if err := s.guard.Authorize(actorID, GroupScope(groupID)); err != nil {
		return domain.Message{}, err
	}
	if err := s.vetAttachment(ref); err != nil {
		return domain.Message{}, err
	}

	return s.messages.Append(domain.Message{
		ChatType:     domain.ChatGroup,
		SenderID:     actorID,
		TargetID:     groupID,
		Content:      ref,
		IsAttachment: true,
	})
}

// ListPrivate returns the full 1:1 history, oldest first. This is the
// read every poll issues; there is no incremental variant.
func (s *ChatService) ListPrivate(_ context.Context, actorID, otherID string) ([]domain.Message, error) {
	if err := s.guard.Authorize(actorID, ApplicationScope()); err != nil {
		return nil, err
	}
	if _, err := s.users.Get(otherID); err != nil {
		return nil, err
	}
	return s.messages.List(domain.PrivateKey(actorID, otherID))
}

func (s *ChatService) ListGroup(_ context.Context, actorID, groupID string) ([]domain.Message, error) {
	if err := s.guard.Authorize(actorID, GroupScope(groupID)); err != nil {
		return nil, err
	}
	return s.messages.List(domain.GroupKey(groupID))
}

func (s *ChatService) SearchPrivate(ctx context.Context, actorID, otherID, terms string) ([]domain.Message, error) {
	if err := s.guard.Authorize(actorID, ApplicationScope()); err != nil {
		return nil, err
	}
	return s.messages.Search(ctx, domain.PrivateKey(actorID, otherID), terms, s.searchLimit)
}

func (s *ChatService) SearchGroup(ctx context.Context, actorID, groupID, terms string) ([]domain.Message, error) {
	if err := s.guard.Authorize(actorID, GroupScope(groupID)); err != nil {
		return nil, err
	}
	return s.messages.Search(ctx, domain.GroupKey(groupID), terms, s.searchLimit)
}

// vetContent rejects empty text and runs the censor over the rest.
func (s *ChatService) vetContent(content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", errors.ErrValidation
	}
	if s.censor != nil {
		content = s.censor.Apply(content)
	}
	return content, nil
}

// vetAttachment sniffs the referenced upload when it is reachable and
// refuses executables. A reference the chat server cannot read is passed
// through untouched: existence is the storage collaborator's concern.
func (s *ChatService) vetAttachment(ref string) error {
	if strings.TrimSpace(ref) == "" {
		return errors.ErrValidation
	}
	if s.uploadDir == "" {
		return nil
	}

	mtype, err := mimetype.DetectFile(filepath.Join(s.uploadDir, filepath.Base(ref)))
	if err != nil {
		return nil
	}
	if mimetypes.IsDenied(mtype.String()) {
		s.log.Warn("executable attachment rejected", "ref", ref, "mime", mtype.String())
		return errors.ErrInvalidOperation
	}
	return nil
}
