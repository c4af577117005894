package settings

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

// DefaultPath is the location of the packager-provided settings file.
const DefaultPath = "/etc/bedrock/settings.json"

// Settings configure the installer. Packagers may override any subset in the
// settings file; missing keys keep their built-in defaults.
type Settings struct {
	// Squashfs is the live seed filesystem extracted onto the target.
	Squashfs string `json:"squashfs"`

	// Mirror is the package mirror probed by the reachability check.
	Mirror string `json:"mirror"`

	// LogPath is the fixed path diagnostics are written to.
	LogPath string `json:"logPath"`

	// ProgressPort is the port the progress feed for the UI listens on.
	ProgressPort uint16 `json:"progressPort"`

	Partitioning Partitioning `json:"partitioning"`
	Telemetry    Telemetry    `json:"telemetry"`
	Report       Report       `json:"report"`
}

// Partitioning configures the automatic partitioner.
type Partitioning struct {
	// EFISizeMB is the size of the EFI system partition.
	EFISizeMB uint64 `json:"efiSizeMB"`

	// MinRootSizeMB is the base minimum root partition size, before the swap
	// allowance for the installed RAM is added.
	MinRootSizeMB uint64 `json:"minRootSizeMB"`

	// SmallDriveGB is the drive size at or below which no home partition is
	// created regardless of the request.
	SmallDriveGB uint64 `json:"smallDriveGB"`

	// HomeThresholdGB is the minimum drive size at which the root partition
	// is capped at 35% of the drive when a home partition is created.
	HomeThresholdGB uint64 `json:"homeThresholdGB"`
}

// Telemetry configures the optional fleet provisioning telemetry push.
type Telemetry struct {
	// RemoteWriteURL is the prometheus remote-write endpoint. Empty disables
	// the push.
	RemoteWriteURL string `json:"remoteWriteURL"`
}

// Report configures optional delivery of the install report.
type Report struct {
	SFTP  SFTP  `json:"sftp"`
	Email Email `json:"email"`
}

// SFTP configures the log bundle upload. Empty address disables it.
type SFTP struct {
	Address string `json:"address"`
	User    string `json:"user"`
	KeyFile string `json:"keyFile"`
	Dir     string `json:"dir"`
}

// Email configures mailing of the install report. Empty address disables it.
type Email struct {
	From       string `json:"from"`
	To         string `json:"to"`
	Server     string `json:"server"`
	HELO       string `json:"helo"`
	DKIMDomain string `json:"dkimDomain"`
	DKIMKey    string `json:"dkimKeyFile"`
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		Squashfs:     "/usr/share/bedrock/filesystem.squashfs",
		Mirror:       "http://deb.debian.org/debian",
		LogPath:      "/var/log/bedrock.log",
		ProgressPort: 2301,
		Partitioning: Partitioning{
			EFISizeMB:       200,
			MinRootSizeMB:   23000,
			SmallDriveGB:    32,
			HomeThresholdGB: 128,
		},
	}
}

// Load reads settings from path, falling back to the defaults for the whole
// file or for any missing key.
func Load(path string) (Settings, error) {
	s := Default()

	f, err := os.Open(path)
	switch {
	case err == nil:
	case os.IsNotExist(err):
		return s, nil
	default:
		return s, errors.WithStack(err)
	}
	defer f.Close()

	// Decoding into the defaults keeps every key the packager left out.
	if err := json.NewDecoder(f).Decode(&s); err != nil {
		return s, errors.Wrapf(err, "malformed settings file %q", path)
	}

	return s, nil
}
