// Package notifications announces finished and halted pipeline runs.
//
// The ntfy implementation posts plain-text messages to the topic URL from
// config.toml. With no topic configured NewService returns a no-op, so the
// workflow can always hold a Service.
package notifications
