package service

import (
	"context"
	"strings"
	"time"

	"github.com/xxxsen/msgvault/internal/model"
	appErr "github.com/xxxsen/msgvault/internal/pkg/errors"
	"github.com/xxxsen/msgvault/internal/pkg/timeutil"
	"github.com/xxxsen/msgvault/internal/repo"
)

type MessageCreateInput struct {
	Title     string
	Content   string
	AuthorID  int64
	ChannelID int64
	Meta      map[string][]string
}

// MessageDetail is a message with its meta mapping and channel resolved.
type MessageDetail struct {
	model.Message
	Meta      map[string][]string `json:"meta,omitempty"`
	ChannelID int64               `json:"channel_id"`
}

type MessageService struct {
	messages *repo.MessageRepo
	meta     *repo.MetaRepo
	channels *repo.ChannelRepo
}

func NewMessageService(messages *repo.MessageRepo, meta *repo.MetaRepo, channels *repo.ChannelRepo) *MessageService {
	return &MessageService{messages: messages, meta: meta, channels: channels}
}

func (s *MessageService) Create(ctx context.Context, input MessageCreateInput) (*MessageDetail, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, appErr.ErrInvalid
	}
	msg := model.Message{
		Title:     title,
		Content:   input.Content,
		Status:    model.MessageStatusPublished,
		AuthorID:  input.AuthorID,
		CreatedAt: timeutil.FormatDateTime(time.Now()),
	}
	if err := s.messages.Insert(ctx, &msg); err != nil {
		return nil, err
	}
	if err := s.meta.InsertBatch(ctx, msg.ID, input.Meta); err != nil {
		return nil, err
	}
	if input.ChannelID > 0 {
		if _, err := s.channels.Get(ctx, input.ChannelID); err != nil {
			return nil, err
		}
		if err := s.channels.Assign(ctx, msg.ID, input.ChannelID); err != nil {
			return nil, err
		}
	}
	return &MessageDetail{Message: msg, Meta: input.Meta, ChannelID: input.ChannelID}, nil
}

func (s *MessageService) Get(ctx context.Context, id int64) (*MessageDetail, error) {
	msg, err := s.messages.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	metaByID, err := s.meta.MapByMessageIDs(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	channelByID, err := s.channels.MapByMessageIDs(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	return &MessageDetail{
		Message:   *msg,
		Meta:      metaByID[id],
		ChannelID: channelByID[id],
	}, nil
}

func (s *MessageService) List(ctx context.Context, limit, offset int) ([]model.Message, error) {
	if limit <= 0 || limit > 200 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.messages.List(ctx, limit, offset)
}

func (s *MessageService) Delete(ctx context.Context, id int64) error {
	if err := s.messages.Delete(ctx, id); err != nil {
		return err
	}
	return s.meta.DeleteByMessageID(ctx, id)
}
