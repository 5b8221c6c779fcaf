package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/msgvault/internal/filestore"
	"github.com/xxxsen/msgvault/internal/model"
	appErr "github.com/xxxsen/msgvault/internal/pkg/errors"
	"github.com/xxxsen/msgvault/internal/pkg/timeutil"
	"github.com/xxxsen/msgvault/internal/repo"
	"github.com/xxxsen/msgvault/internal/statusstore"
)

type ExportOptions struct {
	StartDate string
	EndDate   string
	All       bool
}

type ExportResult struct {
	Count    int    `json:"count"`
	FileName string `json:"file_name,omitempty"`
	FileURL  string `json:"file_url,omitempty"`
}

type ExportService struct {
	messages   *repo.MessageRepo
	meta       *repo.MetaRepo
	channels   *repo.ChannelRepo
	status     statusstore.Store
	files      filestore.Store
	baseURL    string
	batchSize  int
	countCache *expirable.LRU[string, int]
}

func NewExportService(
	messages *repo.MessageRepo,
	meta *repo.MetaRepo,
	channels *repo.ChannelRepo,
	status statusstore.Store,
	files filestore.Store,
	baseURL string,
	batchSize int,
	countCacheTTL time.Duration,
) *ExportService {
	if batchSize <= 0 {
		batchSize = 500
	}
	return &ExportService{
		messages:   messages,
		meta:       meta,
		channels:   channels,
		status:     status,
		files:      files,
		baseURL:    baseURL,
		batchSize:  batchSize,
		countCache: expirable.NewLRU[string, int](128, nil, countCacheTTL),
	}
}

// Count answers the export-size preview. Results are memoized briefly since
// the UI re-asks on every form change.
func (s *ExportService) Count(ctx context.Context, opts ExportOptions) (int, error) {
	filter, err := buildFilter(opts)
	if err != nil {
		return 0, err
	}
	cacheKey := filter.StartDate + "|" + filter.EndDate
	if count, ok := s.countCache.Get(cacheKey); ok {
		return count, nil
	}
	count, err := s.messages.CountPublished(ctx, filter)
	if err != nil {
		return 0, err
	}
	s.countCache.Add(cacheKey, count)
	return count, nil
}

// Export writes every published message in range to a single JSON file and
// records the outcome as status flags. Zero matches is a distinct terminal
// status, not an error: the count flag is set to 0 and no file is written.
// A storage write failure is returned synchronously and leaves no flag
// referencing a missing file.
func (s *ExportService) Export(ctx context.Context, opts ExportOptions) (*ExportResult, error) {
	filter, err := buildFilter(opts)
	if err != nil {
		return nil, err
	}
	total, err := s.messages.CountPublished(ctx, filter)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		if err := s.status.Set(ctx, FlagExportCount, "0", exportCountTTL); err != nil {
			return nil, err
		}
		return &ExportResult{Count: 0}, nil
	}

	records := make([]model.ExportRecord, 0, total)
	for offset := 0; offset < total; offset += s.batchSize {
		batch, err := s.messages.ListPublished(ctx, filter, s.batchSize, offset)
		if err != nil {
			return nil, err
		}
		if len(batch) == 0 {
			break
		}
		augmented, err := s.augment(ctx, batch)
		if err != nil {
			return nil, err
		}
		records = append(records, augmented...)
	}

	payload, err := encodeRecords(records)
	if err != nil {
		return nil, err
	}
	fileName := exportFileName(filter, time.Now())
	if err := s.files.Save(ctx, fileName, &bytesFile{bytes.NewReader(payload)}, int64(len(payload))); err != nil {
		logutil.GetLogger(ctx).Error("export file write failed",
			zap.String("file", fileName), zap.Error(err))
		return nil, appErr.ErrExportWriteFailed
	}
	fileURL := s.files.URL(fileName, s.baseURL)

	if err := s.status.Set(ctx, FlagExportFile, fileURL, exportFileTTL); err != nil {
		return nil, err
	}
	if err := s.status.Set(ctx, FlagExportCount, strconv.Itoa(total), exportCountTTL); err != nil {
		return nil, err
	}
	logutil.GetLogger(ctx).Info("export complete",
		zap.Int("count", total), zap.String("file", fileName))
	return &ExportResult{Count: total, FileName: fileName, FileURL: fileURL}, nil
}

// augment attaches the meta mapping and channel id to a retrieval batch with
// one bulk query per concern.
func (s *ExportService) augment(ctx context.Context, batch []model.Message) ([]model.ExportRecord, error) {
	ids := make([]int64, 0, len(batch))
	for _, msg := range batch {
		ids = append(ids, msg.ID)
	}
	metaByID, err := s.meta.MapByMessageIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	channelByID, err := s.channels.MapByMessageIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	records := make([]model.ExportRecord, 0, len(batch))
	for _, msg := range batch {
		records = append(records, model.ExportRecord{
			ID:        msg.ID,
			Title:     msg.Title,
			Content:   msg.Content,
			Date:      msg.CreatedAt,
			Status:    msg.Status,
			Author:    strconv.FormatInt(msg.AuthorID, 10),
			Meta:      metaByID[msg.ID],
			ChannelID: channelByID[msg.ID],
		})
	}
	return records, nil
}

func buildFilter(opts ExportOptions) (repo.MessageFilter, error) {
	if opts.All || opts.StartDate == "" || opts.EndDate == "" {
		return repo.MessageFilter{}, nil
	}
	if !timeutil.IsDay(opts.StartDate) || !timeutil.IsDay(opts.EndDate) {
		return repo.MessageFilter{}, appErr.ErrInvalid
	}
	return repo.MessageFilter{StartDate: opts.StartDate, EndDate: opts.EndDate}, nil
}

func exportFileName(filter repo.MessageFilter, now time.Time) string {
	name := "messages"
	if filter.StartDate != "" && filter.EndDate != "" {
		name += fmt.Sprintf("-%s_to_%s", filter.StartDate, filter.EndDate)
	}
	return fmt.Sprintf("%s-%d.json", name, now.Unix())
}

func encodeRecords(records []model.ExportRecord) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type bytesFile struct {
	*bytes.Reader
}

func (f *bytesFile) Close() error {
	return nil
}
