// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the command-line client of the go-invoicer API.
//
// An [App] parses one command with its operands, runs it through an
// [adapter.ServerAdapter] and prints the result as a table or a short
// message.
package client
