// Package rabbitmq provides a RabbitMQ-backed single-value source.
//
// ReplySource implements the upstream-producer contract consumed by the
// rxstream operators over an AMQP request/reply exchange: each
// subscription publishes one request with a fresh correlation ID and
// resolves with the first reply whose correlation ID matches. Disposing
// the handle abandons the exchange without resolving.
//
// Channel operations are taken through a narrow interface satisfied by
// *amqp091.Channel, so the source can be exercised against fakes in
// tests.
package rabbitmq
