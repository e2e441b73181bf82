package consts

const (
	ChapterViewKey     = "chapter:view:"
	StoryViewKey       = "story:view:"
	ModerationQueueKey = "moderation:queue:size:"
	TokenBlacklistKey  = "token:blacklist:"
)

const (
	RescreenJobLock   = "lock:job:rescreen"
	QueueGaugeJobLock = "lock:job:queue_gauge"
)
