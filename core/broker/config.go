package broker

// Supported broker drivers.
const (
	DriverRabbitMQ = "rabbitmq"
	DriverSQS      = "sqs"
	DriverNone     = "none"
)

// DefaultQueue is the queue appointment result events arrive on.
const DefaultQueue = "pdf-upload-queue"

// Config holds configuration for the message broker.
type Config struct {
	// Driver selects the transport (rabbitmq, sqs, none).
	Driver string `mapstructure:"driver" default:"rabbitmq" validate:"required,oneof=rabbitmq sqs none"`
	// Host is the RabbitMQ host name.
	Host string `mapstructure:"host" default:"" validate:"required_if=Driver rabbitmq"`
	// Port is the RabbitMQ AMQP port.
	Port int `mapstructure:"port" default:"5672" validate:"omitempty,gte=1,lte=65535"`
	// Username authenticates against RabbitMQ.
	Username string `mapstructure:"username" default:"" validate:"required_if=Driver rabbitmq"`
	// Password authenticates against RabbitMQ.
	Password string `mapstructure:"password" default:"" validate:"required_if=Driver rabbitmq"`
	// VHost is the RabbitMQ virtual host.
	VHost string `mapstructure:"vhost" default:"/"`
	// Queue is the RabbitMQ queue name.
	Queue string `mapstructure:"queue" default:"pdf-upload-queue" validate:"required_if=Driver rabbitmq"`
	// Exchange, when set, is declared and bound to Queue. MassTransit
	// publishes to a fanout exchange named after the message type.
	Exchange string `mapstructure:"exchange" default:""`
	// ExchangeType is the kind of Exchange (fanout, direct, topic).
	ExchangeType string `mapstructure:"exchange_type" default:"fanout" validate:"omitempty,oneof=fanout direct topic headers"`
	// RoutingKey binds Queue to Exchange.
	RoutingKey string `mapstructure:"routing_key" default:""`
	// HandlerTimeoutSeconds bounds one RabbitMQ delivery; 0 disables it.
	HandlerTimeoutSeconds int `mapstructure:"handler_timeout_seconds" default:"300" validate:"gte=0"`
	// QueueURL is the SQS queue URL.
	QueueURL string `mapstructure:"queue_url" default:"" validate:"required_if=Driver sqs"`
	// Region is the SQS region.
	Region string `mapstructure:"region" default:"us-east-1" validate:"required_if=Driver sqs"`
	// Endpoint overrides the SQS endpoint (LocalStack, ElasticMQ).
	Endpoint string `mapstructure:"endpoint" default:""`
	// AccessKey is the SQS access key ID.
	AccessKey string `mapstructure:"access_key" default:"" validate:"required_if=Driver sqs"`
	// SecretKey is the SQS secret access key.
	SecretKey string `mapstructure:"secret_key" default:"" validate:"required_if=Driver sqs"`
	// Concurrency bounds how many events are processed at once.
	Concurrency int `mapstructure:"concurrency" default:"4" validate:"gte=1"`
	// VisibilitySeconds is the SQS delivery lease.
	VisibilitySeconds int `mapstructure:"visibility_seconds" default:"300" validate:"gte=0"`
}

func (c Config) concurrency() int {
	return max(1, c.Concurrency)
}
