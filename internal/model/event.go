// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Event levels
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// EventLevels lists the levels shown in the event log filter.
var EventLevels = []string{EventLevelWarning, EventLevelError}

// Event categories
const (
	EventCategoryAuth     = "auth"
	EventCategoryProject  = "project"
	EventCategoryRemote   = "remote"
	EventCategoryCache    = "cache"
	EventCategorySystem   = "system"
	EventCategorySchedule = "schedule"
)
