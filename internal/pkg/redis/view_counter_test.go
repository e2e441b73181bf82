package redis

import (
	"Inkwell/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViewKey(t *testing.T) {
	assert.Equal(t, "chapter:view:12", ViewKey(model.KindChapter, 12))
	assert.Equal(t, "story:view:3", ViewKey(model.KindStory, 3))
}
