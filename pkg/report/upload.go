package report

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/pkg/errors"
	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"github.com/outofforest/bedrock/pkg/settings"
)

// Upload pushes the report to the fleet SFTP drop directory. OEM lines
// collect reports centrally, one file per machine per run.
func Upload(ctx context.Context, config settings.SFTP, rep Report) error {
	if config.Address == "" {
		return nil
	}

	content, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return errors.WithStack(err)
	}

	keyBytes, err := os.ReadFile(config.KeyFile)
	if err != nil {
		return errors.WithStack(err)
	}
	signer, err := ssh.ParsePrivateKey(keyBytes)
	if err != nil {
		return errors.Wrap(err, "parsing SFTP key failed")
	}

	sshClient, err := ssh.Dial("tcp", config.Address, &ssh.ClientConfig{
		User: config.User,
		Auth: []ssh.AuthMethod{ssh.PublicKeys(signer)},
		// The drop host is provisioned together with the installer media,
		// its key is not known upfront.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         10 * time.Second,
	})
	if err != nil {
		return errors.Wrapf(err, "dialing %s failed", config.Address)
	}
	defer sshClient.Close()

	client, err := sftp.NewClient(sshClient)
	if err != nil {
		return errors.WithStack(err)
	}
	defer client.Close()

	name := fmt.Sprintf("%s-%s.json", rep.Machine, rep.FinishedAt.Format("20060102-150405"))
	f, err := client.Create(path.Join(config.Dir, name))
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()

	if _, err := f.Write(content); err != nil {
		return errors.WithStack(err)
	}
	if err := f.Close(); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(ctx.Err())
}
