// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package iam

// getOpts - iterate the inbound Options and return a struct
func getOpts(opt ...Option) options {
	opts := getDefaultOptions()
	for _, o := range opt {
		o(&opts)
	}
	return opts
}

// Option - how Options are passed as arguments
type Option func(*options)

// options = how options are represented
type options struct {
	withName                string
	withServiceAccountLimit *uint32
	withLimit               int
}

func getDefaultOptions() options {
	return options{}
}

// WithName provides an option to search by a friendly name
func WithName(name string) Option {
	return func(o *options) {
		o.withName = name
	}
}

// WithServiceAccountLimit provides an option to set an organization's service
// account seat limit.  Without this option the organization's seats are not
// metered.
func WithServiceAccountLimit(limit uint32) Option {
	return func(o *options) {
		o.withServiceAccountLimit = &limit
	}
}

// WithLimit provides an option to provide a limit.  Intentionally allowing
// negative integers.  If WithLimit < 0, then unlimited results are returned.
// If WithLimit == 0, then default limits are used for results.
func WithLimit(limit int) Option {
	return func(o *options) {
		o.withLimit = limit
	}
}
