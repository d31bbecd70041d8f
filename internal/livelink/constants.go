package livelink

import "strconv"

// DefaultListName is used by create when no name is given.
const DefaultListName = "Unsere Teamkill-Liste"

// Input limits
const (
	MaxSlugLength = 128
	MaxNameLength = 100
)

// Validator rules for user input, derived from the limits above so the
// command option lengths and the service checks agree.
var (
	slugRules = "required,max=" + strconv.Itoa(MaxSlugLength) + ",printascii,excludesall=/?#"
	nameRules = "required,max=" + strconv.Itoa(MaxNameLength)
)

// Log messages
const (
	LogMsgCreatedList          = "Created remote list"
	LogMsgOwnerSettingsFailed  = "Failed to fetch owner settings for count token"
	LogMsgReplacingLink        = "Replacing existing live link in channel"
	LogMsgDeleteMessageFailed  = "Failed to delete mirror message, continuing"
	LogMsgLinked               = "Live link created"
	LogMsgUnlinked             = "Live link removed"
	LogMsgRegistryFlushFailed  = "Failed to persist registry change"
	LogMsgMutationDowngrade    = "Count token rejected at point of use, downgrading to read-only"
	LogMsgMutationUnverifiable = "Count token could not be verified at point of use"
	LogMsgMutationApplied      = "Delta applied"
	LogMsgMutationFailed       = "Delta request failed"
)
