// Package notify delivers outreach events and digests to external sinks.
//
// A [Dispatcher] sits between the school store and the outside world. It
// implements store.Notifier and digest.Reporter, turns each event or summary
// into a [Message] and queues it for a background worker, so a slow webhook
// or Telegram API never stalls a store mutation.
//
// Senders:
//   - [WebhookSender] POSTs the message payload as JSON to an HTTP endpoint
//   - [TelegramSender] sends the message text to a Telegram chat
//
// Users of the outreach library configure sinks with [outreach.WithWebhook]
// and [outreach.WithTelegram] and should not need this package directly.
package notify
