// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package tar provides TAR archive management functions
//
// This package with hardened controls to protect the caller from various attack
// related to insecure compression management.
package tar
