package service

import (
	"Inkwell/internal/api/dto"
	"Inkwell/internal/model"
	"Inkwell/internal/pkg/util"

	"github.com/jinzhu/copier"
)

func ToStoryDTO(story *model.Story) *dto.StoryDTO {
	d := &dto.StoryDTO{}
	_ = copier.Copy(d, story)
	d.Status = string(story.Status)
	d.SubmittedAt = util.FormatTimePtr(story.SubmittedAt)
	d.PublishedAt = util.FormatTimePtr(story.PublishedAt)
	d.CreatedAt = util.FormatTime(story.CreatedAt)
	d.UpdatedAt = util.FormatTime(story.UpdatedAt)
	return d
}

func ToChapterDTO(chapter *model.Chapter) *dto.ChapterDTO {
	d := &dto.ChapterDTO{}
	_ = copier.Copy(d, chapter)
	d.Status = string(chapter.Status)
	d.SubmittedAt = util.FormatTimePtr(chapter.SubmittedAt)
	d.PublishedAt = util.FormatTimePtr(chapter.PublishedAt)
	d.CreatedAt = util.FormatTime(chapter.CreatedAt)
	return d
}

func ToReviewRecordDTO(record *model.ReviewRecord) *dto.ReviewRecordDTO {
	d := &dto.ReviewRecordDTO{}
	_ = copier.Copy(d, record)
	d.TargetKind = string(record.TargetKind)
	d.Status = string(record.Status)
	d.Source = string(record.Source)
	d.Violations = record.Violations()
	d.QueuedAt = util.FormatTimePtr(record.QueuedAt)
	d.DecidedAt = util.FormatTimePtr(record.DecidedAt)
	d.CreatedAt = util.FormatTime(record.CreatedAt)
	return d
}

func ToReviewRecordDTOs(records []*model.ReviewRecord) []*dto.ReviewRecordDTO {
	out := make([]*dto.ReviewRecordDTO, 0, len(records))
	for _, r := range records {
		out = append(out, ToReviewRecordDTO(r))
	}
	return out
}
