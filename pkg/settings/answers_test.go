package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeAnswers(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "answers.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadAnswers(t *testing.T) {
	a, err := LoadAnswers(writeAnswers(t, `{
		"language": "en_US.UTF-8",
		"timezone": "Europe/Warsaw",
		"username": "ada",
		"hostname": "workstation",
		"password": "hunter2",
		"extras": true,
		"efiPartition": "/dev/sda1",
		"rootDevice": "/dev/sda2",
		"home": "MAKE"
	}`))
	require.NoError(t, err)

	require.Equal(t, "en_US.UTF-8", a.Language)
	require.Equal(t, "Europe/Warsaw", a.Timezone)
	require.Equal(t, "ada", a.Username)
	require.Equal(t, "workstation", a.Hostname)
	require.Equal(t, "hunter2", a.Password)
	require.True(t, a.Extras)
	require.False(t, a.Updates)
	require.Equal(t, "/dev/sda1", a.EFIPartition)
	require.Equal(t, "/dev/sda2", a.RootDevice)
	require.Equal(t, "MAKE", a.Home)
	require.Nil(t, a.RAID)
}

func TestLoadAnswersDefaultsSentinels(t *testing.T) {
	a, err := LoadAnswers(writeAnswers(t, `{
		"language": "en_US.UTF-8",
		"timezone": "UTC",
		"username": "user",
		"hostname": "pc",
		"password": "pw",
		"rootDevice": "/dev/vda"
	}`))
	require.NoError(t, err)

	require.Equal(t, "NULL", a.EFIPartition)
	require.Equal(t, "NULL", a.Home)
}

func TestLoadAnswersRAIDWithoutRootDevice(t *testing.T) {
	a, err := LoadAnswers(writeAnswers(t, `{
		"language": "en_US.UTF-8",
		"timezone": "UTC",
		"username": "user",
		"hostname": "pc",
		"password": "pw",
		"raid": {"type": "raid1", "disks": ["/dev/sda", "/dev/sdb"]}
	}`))
	require.NoError(t, err)

	require.NotNil(t, a.RAID)
	require.Equal(t, "raid1", a.RAID.Type)
	require.Equal(t, []string{"/dev/sda", "/dev/sdb"}, a.RAID.Disks)
}

func TestLoadAnswersMissingRequiredKey(t *testing.T) {
	_, err := LoadAnswers(writeAnswers(t, `{
		"language": "en_US.UTF-8",
		"timezone": "UTC",
		"username": "user",
		"hostname": "pc",
		"rootDevice": "/dev/vda"
	}`))
	require.Error(t, err)
}

func TestLoadAnswersMissingFile(t *testing.T) {
	_, err := LoadAnswers(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}
