package consts

const (
	PlatformInstagram = "instagram"
	PlatformTelegram  = "telegram"
)

const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

const (
	InteractionComment = "comment"
	InteractionDM      = "dm"
)

// CollectionXxx Mongo 集合名
const (
	CollectionPosts        = "posts"
	CollectionInteractions = "interactions"
	CollectionLogs         = "logs"
	CollectionSettings     = "settings"
	CollectionTrends       = "trends"
)
