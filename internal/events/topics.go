package events

// Topic constants for notifications emitted by the configurator.
const (
	TopicCartUpdated    = "cart.updated"
	TopicCheckoutFailed = "checkout.failed"
)

// DefaultTopics returns the canonical list of emitted topics.
func DefaultTopics() []string {
	return []string{
		TopicCartUpdated,
		TopicCheckoutFailed,
	}
}
