package bedrock

import (
	"context"

	"github.com/pkg/errors"

	"github.com/outofforest/bedrock/pkg/lab"
)

// StartLab boots the live installer image in a lab VM with a blank drive.
func StartLab(libvirtAddr, name, iso string, configurators ...lab.Configurator) error {
	l, err := lab.Connect(libvirtAddr)
	if err != nil {
		return errors.WithStack(err)
	}
	return lab.Create(l, name, iso, configurators...)
}

// DestroyLab tears down every lab machine and its storage.
func DestroyLab(ctx context.Context, libvirtAddr string) error {
	l, err := lab.Connect(libvirtAddr)
	if err != nil {
		return errors.WithStack(err)
	}
	return lab.Destroy(ctx, l)
}
