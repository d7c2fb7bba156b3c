package ledger

import (
	"errors"
	"regexp"
	"strconv"
)

// ResumeCheckpoint describes how far a multi-transaction submission got
// before breaking. Valid only when BrokeNum > 0 and BeforeHash is
// non-empty.
type ResumeCheckpoint struct {
	BrokeNum   int
	BeforeHash string
}

// The two free-text shapes the SDK has been observed to emit. The
// upstream wording is an external contract; keep these pinned to their
// literal forms.
var (
	resumeKeyValuePattern = regexp.MustCompile(`(?is)brokeNum[:=]\s*(\d+).+beforeHash[:=]\s*([A-Za-z0-9]+)`)
	resumeSentencePattern = regexp.MustCompile(`(?i)Transaction\s+(\d+)\s+failed,\s+beforeHash:([A-Za-z0-9]+)`)
)

// ParseResumeCheckpoint extracts a resumption checkpoint from a submit
// failure, or returns nil when the failure carries none. The structured
// BrokenSubmitError fields win over the text fallback; patterns are
// tried in order and the first match wins. Pure extraction, never
// mutates anything.
func ParseResumeCheckpoint(err error) *ResumeCheckpoint {
	if err == nil {
		return nil
	}

	var broken *BrokenSubmitError
	if errors.As(err, &broken) {
		if broken.BrokeNum > 0 && broken.BeforeHash != "" {
			return &ResumeCheckpoint{
				BrokeNum:   broken.BrokeNum,
				BeforeHash: broken.BeforeHash,
			}
		}
	}

	text := err.Error()
	for _, pattern := range []*regexp.Regexp{resumeKeyValuePattern, resumeSentencePattern} {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		num, convErr := strconv.Atoi(m[1])
		if convErr != nil || num <= 0 || m[2] == "" {
			return nil
		}
		return &ResumeCheckpoint{BrokeNum: num, BeforeHash: m[2]}
	}
	return nil
}
