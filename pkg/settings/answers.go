package settings

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

// DefaultAnswersPath is where the frontend (or the live image, in first-boot
// installations) drops the collected answers for the launcher.
const DefaultAnswersPath = "/etc/bedrock/answers.json"

// Answers are the collected installation answers. They map one to one onto
// the positional parameters handed to the target-side process, plus the
// partitioning request consumed before the handoff.
type Answers struct {
	Language     string `json:"language"`
	Timezone     string `json:"timezone"`
	Username     string `json:"username"`
	Hostname     string `json:"hostname"`
	Password     string `json:"password"`
	Extras       bool   `json:"extras"`
	Updates      bool   `json:"updates"`
	EFIPartition string `json:"efiPartition"`
	RootDevice   string `json:"rootDevice"`

	// Home is NULL for no home partition, MAKE to create one, or the path of
	// an existing partition to reuse.
	Home string `json:"home"`

	RAID *RAIDAnswers `json:"raid,omitempty"`
}

// RAIDAnswers request a btrfs RAID array instead of single-drive
// partitioning.
type RAIDAnswers struct {
	Type  string   `json:"type"`
	Disks []string `json:"disks"`
}

// LoadAnswers reads the answers file. Unlike settings, answers have no
// defaults to fall back to; a missing file is an error.
func LoadAnswers(path string) (Answers, error) {
	var a Answers

	f, err := os.Open(path)
	if err != nil {
		return a, errors.Wrapf(err, "answers file %q is not readable", path)
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(&a); err != nil {
		return a, errors.Wrapf(err, "malformed answers file %q", path)
	}

	switch {
	case a.Language == "":
		return a, errors.New("answers: language is required")
	case a.Timezone == "":
		return a, errors.New("answers: timezone is required")
	case a.Username == "":
		return a, errors.New("answers: username is required")
	case a.Hostname == "":
		return a, errors.New("answers: hostname is required")
	case a.Password == "":
		return a, errors.New("answers: password is required")
	case a.RootDevice == "" && a.RAID == nil:
		return a, errors.New("answers: root device is required")
	}

	if a.EFIPartition == "" {
		a.EFIPartition = "NULL"
	}
	if a.Home == "" {
		a.Home = "NULL"
	}

	return a, nil
}
