package consts

const (
	WebhookDedupKey = "webhook:event:"
)

const (
	PublishSweepLock = "lock:sweep:publish"
	ReplySweepLock   = "lock:sweep:reply"
	TrendSweepLock   = "lock:sweep:trend"
	ContentGenLock   = "lock:content:generate"
)
