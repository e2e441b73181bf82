package redis

import (
	"Inkwell/internal/model"
	"Inkwell/internal/pkg/consts"
	"context"
	"strconv"
)

// ViewCounter 章节/作品阅读计数，发布时初始化
type ViewCounter struct{}

func NewViewCounter() *ViewCounter {
	return &ViewCounter{}
}

func ViewKey(kind model.TargetKind, id uint64) string {
	prefix := consts.ChapterViewKey
	if kind == model.KindStory {
		prefix = consts.StoryViewKey
	}
	return prefix + strconv.FormatUint(id, 10)
}

// InitViewCounter 重复发布不会清零已有计数
func (s *ViewCounter) InitViewCounter(ctx context.Context, kind model.TargetKind, id uint64) error {
	_, err := InitCounter(ctx, ViewKey(kind, id))
	return err
}

// DropViewCounter 下架后删除计数
func (s *ViewCounter) DropViewCounter(ctx context.Context, kind model.TargetKind, id uint64) error {
	return DeleteKey(ctx, ViewKey(kind, id))
}
