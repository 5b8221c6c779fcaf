package service

import (
	"context"
	"strings"

	"github.com/xxxsen/msgvault/internal/model"
	appErr "github.com/xxxsen/msgvault/internal/pkg/errors"
	"github.com/xxxsen/msgvault/internal/pkg/timeutil"
	"github.com/xxxsen/msgvault/internal/repo"
)

type ChannelService struct {
	channels *repo.ChannelRepo
}

func NewChannelService(channels *repo.ChannelRepo) *ChannelService {
	return &ChannelService{channels: channels}
}

func (s *ChannelService) Create(ctx context.Context, name string) (*model.Channel, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, appErr.ErrInvalid
	}
	channel := model.Channel{
		Name:  name,
		Slug:  slugify(name),
		Ctime: timeutil.NowUnix(),
	}
	if err := s.channels.Create(ctx, &channel); err != nil {
		return nil, err
	}
	return &channel, nil
}

func (s *ChannelService) List(ctx context.Context) ([]model.Channel, error) {
	return s.channels.List(ctx)
}

func slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
