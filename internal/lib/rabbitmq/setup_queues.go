package rabbitmq

type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetPaymentQueues возвращает очереди планировщика: напоминания о
// приближающихся платежах по взносам и кооперативным циклам.
func GetPaymentQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "payments.due", RoutingKey: "due"},
	}
}
