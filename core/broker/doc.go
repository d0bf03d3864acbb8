// Package broker delivers inbound events to a Handler.
//
// Two transports are provided. RabbitMQ consumes a durable queue with manual
// acknowledgements: success acks, a permanent failure nacks without requeue,
// any other failure nacks with requeue. SQS long-polls a queue and uses the
// visibility timeout as the delivery lease: success and permanent failures
// delete the message, other failures leave it to reappear.
//
// Both bound concurrency with a semaphore and wait for in-flight handlers when
// the context is cancelled. Delivery is at-least-once, so handlers must be
// idempotent.
package broker
