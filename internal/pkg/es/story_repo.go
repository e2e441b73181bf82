package es

import (
	"Inkwell/internal/model"
	"context"
	"errors"
	"strconv"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/versiontype"
)

type StoryRepo interface {
	IndexStory(ctx context.Context, story *model.Story) error
	DeleteStory(ctx context.Context, id uint64) error
}

type storyRepoImpl struct {
	client *elasticsearch.TypedClient
	index  string
}

func NewStoryRepo(client *elasticsearch.TypedClient, index string) StoryRepo {
	return &storyRepoImpl{client: client, index: index}
}

// IndexStory 以更新时间作为外部版本号，乱序写入时旧版本被忽略
func (s *storyRepoImpl) IndexStory(ctx context.Context, story *model.Story) error {
	doc := NewStoryES(story)

	_, err := s.client.Index(s.index).
		Id(strconv.FormatUint(story.ID, 10)).
		Document(doc).
		Version(strconv.FormatInt(story.UpdatedAt.UnixMilli(), 10)).
		VersionType(versiontype.External).
		Do(ctx)
	if isStatus(err, ConflictCode) {
		return nil
	}
	return err
}

func (s *storyRepoImpl) DeleteStory(ctx context.Context, id uint64) error {
	_, err := s.client.Delete(s.index, strconv.FormatUint(id, 10)).Do(ctx)
	if isStatus(err, NotFoundCode) {
		return nil
	}
	return err
}

func isStatus(err error, code int) bool {
	if err == nil {
		return false
	}
	var e *types.ElasticsearchError
	return errors.As(err, &e) && e.Status == code
}
