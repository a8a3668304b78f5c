// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Editor Emoji Contributors

//go:build tools

// Package main pins test dependencies to go.mod.
package main

import (
	_ "github.com/onsi/ginkgo/v2"
	_ "github.com/onsi/gomega"
	_ "github.com/prometheus/client_golang/prometheus/testutil"
	_ "github.com/stretchr/testify/mock"
	_ "go.uber.org/goleak"
)
