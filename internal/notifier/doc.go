// Package notifier delivers rendered digests.
//
// A Notifier posts the digest as JSON to a webhook, emails it through Resend,
// or in dry-run mode prints what would have been sent.
package notifier
