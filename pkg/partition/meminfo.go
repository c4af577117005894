package partition

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// RAMSize returns the installed memory in bytes, read from /proc/meminfo.
func RAMSize() (uint64, error) {
	f, err := os.Open("/proc/meminfo")
	if err != nil {
		return 0, errors.WithStack(err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "MemTotal:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			break
		}
		kb, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return 0, errors.WithStack(err)
		}
		return kb * 1024, nil
	}
	if err := scanner.Err(); err != nil {
		return 0, errors.WithStack(err)
	}
	return 0, errors.New("MemTotal not present in /proc/meminfo")
}
