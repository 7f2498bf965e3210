package libnioev

import (
	"strings"
	"unicode/utf8"
)

const (
	topicSeparator      = '/'
	singleLevelWildcard = '+'
	multiLevelWildcard  = '#'
)

// ValidateTopicName reports whether topic is a legal publish target:
// non-empty, valid UTF-8, free of NUL and free of wildcard characters.
func ValidateTopicName(topic string) bool {
	if topic == "" || !utf8.ValidString(topic) {
		return false
	}
	for _, r := range topic {
		if r == 0 || r == singleLevelWildcard || r == multiLevelWildcard {
			return false
		}
	}
	return true
}

// ValidateTopicFilter reports whether filter is a legal subscription
// filter: wildcards are permitted but each must occupy its level
// entirely, and '#' may only appear as the final level.
func ValidateTopicFilter(filter string) bool {
	if filter == "" || !utf8.ValidString(filter) {
		return false
	}
	for _, r := range filter {
		if r == 0 {
			return false
		}
	}

	levels := strings.Split(filter, string(topicSeparator))
	for i, level := range levels {
		if strings.Contains(level, string(singleLevelWildcard)) && level != string(singleLevelWildcard) {
			return false
		}
		if strings.Contains(level, string(multiLevelWildcard)) {
			if level != string(multiLevelWildcard) || i != len(levels)-1 {
				return false
			}
		}
	}
	return true
}

// TopicMatch reports whether topic matches filter, applying the
// MQTT rule that a topic starting with '$' is never matched by a
// filter whose first level is a wildcard.
func TopicMatch(filter, topic string) bool {
	if filter == "" || topic == "" {
		return false
	}
	if topic[0] == '$' && (filter[0] == singleLevelWildcard || filter[0] == multiLevelWildcard) {
		return false
	}
	return matchTopicNoAlloc(filter, topic)
}

// matchTopicNoAlloc walks filter and topic level by level without
// allocating, mirroring the original's doesTopicMatchSubscription.
func matchTopicNoAlloc(filter, topic string) bool {
	fi, ti := 0, 0
	flen, tlen := len(filter), len(topic)

	for fi < flen {
		fstart := fi
		for fi < flen && filter[fi] != topicSeparator {
			fi++
		}
		flevel := filter[fstart:fi]

		if flevel == "#" {
			return true
		}

		if ti >= tlen {
			return false
		}

		tstart := ti
		for ti < tlen && topic[ti] != topicSeparator {
			ti++
		}
		tlevel := topic[tstart:ti]

		if flevel != "+" && flevel != tlevel {
			return false
		}

		if fi < flen {
			fi++
		}
		if ti < tlen {
			ti++
		}
	}

	return ti >= tlen
}

// IsSystemTopic reports whether topic is a $SYS broker-internal topic.
func IsSystemTopic(topic string) bool {
	return strings.HasPrefix(topic, "$SYS/") || topic == "$SYS"
}

// SharedSubscription is a parsed $share/<name>/<filter> subscription.
type SharedSubscription struct {
	ShareName   string
	TopicFilter string
}

// ParseSharedSubscription parses filter as a shared subscription. It
// returns (nil, nil) when filter does not use the $share/ prefix at
// all — that is not an error, just a plain (non-shared) filter.
func ParseSharedSubscription(filter string) (*SharedSubscription, error) {
	const prefix = "$share/"
	if !strings.HasPrefix(filter, prefix) {
		return nil, nil
	}

	rest := filter[len(prefix):]
	idx := strings.IndexByte(rest, topicSeparator)
	if idx <= 0 {
		return nil, wrapf(ErrMalformedPacket, "shared subscription missing share name")
	}

	shareName := rest[:idx]
	topicFilter := rest[idx+1:]
	if topicFilter == "" {
		return nil, wrapf(ErrMalformedPacket, "shared subscription missing topic filter")
	}
	if !ValidateTopicFilter(topicFilter) {
		return nil, wrapf(ErrMalformedPacket, "shared subscription has invalid topic filter")
	}

	return &SharedSubscription{ShareName: shareName, TopicFilter: topicFilter}, nil
}

// HasWildcard reports whether filter contains '+' or '#'.
func HasWildcard(filter string) bool {
	return strings.ContainsAny(filter, "#+")
}
