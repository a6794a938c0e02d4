package subscriber

// Command is a request to change the data socket's subscription set. The
// data socket has a single owner task; every other task reaches it only
// through this channel, never by touching the socket directly.
type Command struct {
	Topic     string
	Subscribe bool
}

// SubscribeCommand requests subscribing to topic.
func SubscribeCommand(topic string) Command {
	return Command{Topic: topic, Subscribe: true}
}

// UnsubscribeCommand requests unsubscribing from topic.
func UnsubscribeCommand(topic string) Command {
	return Command{Topic: topic, Subscribe: false}
}
