// Package lab boots the live installer image in a throwaway VM with a blank
// drive, so the whole first-boot installation can be exercised end to end
// without sacrificing hardware.
package lab

import (
	"bytes"
	"context"
	_ "embed"
	"net"
	"strings"
	"text/template"
	"time"

	"github.com/digitalocean/go-libvirt"
	"github.com/digitalocean/go-libvirt/socket"
	"github.com/digitalocean/go-libvirt/socket/dialers"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/outofforest/logger"
	"github.com/outofforest/parallel"
)

// PoolName is the name of the lab storage pool.
const PoolName = "bedrock-lab"

// labMarker tags every domain created here, so Destroy never touches
// machines it does not own.
const labMarker = "<bedrock:lab"

var (
	//go:embed lab.tmpl.xml
	domainDef     string
	domainDefTmpl = lo.Must(template.New("domain").Parse(domainDef))

	//go:embed pool.xml
	poolDef string

	//go:embed volume.tmpl.xml
	volumeDef     string
	volumeDefTmpl = lo.Must(template.New("volume").Parse(volumeDef))
)

// Config describes the lab machine.
type Config struct {
	Name     string
	Cores    uint64
	MemoryMB uint64
	ISO      string
	DiskSize uint64
}

// Configurator defines function setting the lab configuration.
type Configurator func(config *Config)

// Cores sets the number of cores.
func Cores(cores uint64) Configurator {
	return func(config *Config) {
		config.Cores = cores
	}
}

// Memory sets the RAM size in MiB.
func Memory(memoryMB uint64) Configurator {
	return func(config *Config) {
		config.MemoryMB = memoryMB
	}
}

// DiskSize sets the size of the blank installation drive in bytes.
func DiskSize(size uint64) Configurator {
	return func(config *Config) {
		config.DiskSize = size
	}
}

// Connect dials libvirt. Empty address means the local socket.
func Connect(addr string) (*libvirt.Libvirt, error) {
	var dialer socket.Dialer = dialers.NewLocal()
	if addr != "" {
		addrParts := strings.SplitN(addr, "://", 2)
		if len(addrParts) != 2 {
			return nil, errors.Errorf("address %s has invalid format", addr)
		}

		conn, err := net.DialTimeout(addrParts[0], addrParts[1], 2*time.Second)
		if err != nil {
			return nil, errors.WithStack(err)
		}

		dialer = dialers.NewAlreadyConnected(conn)
	}
	l := libvirt.NewWithDialer(dialer)
	if err := l.Connect(); err != nil {
		return nil, errors.WithStack(err)
	}
	return l, nil
}

// Create defines and starts the lab machine: a blank volume in the lab pool
// and a domain booting the live installer ISO with that volume as the
// installation drive.
func Create(l *libvirt.Libvirt, name, iso string, configurators ...Configurator) error {
	const gb = 1024 * 1024 * 1024

	config := Config{
		Name:     name,
		Cores:    2,
		MemoryMB: 4096,
		ISO:      iso,
		DiskSize: 64 * gb,
	}
	for _, configurator := range configurators {
		configurator(&config)
	}

	if err := createVolume(l, config); err != nil {
		return err
	}

	buf := &bytes.Buffer{}
	err := domainDefTmpl.Execute(buf, struct {
		Name   string
		Cores  uint64
		Memory uint64
		ISO    string
		Pool   string
		Volume string
	}{
		Name:   config.Name,
		Cores:  config.Cores,
		Memory: config.MemoryMB,
		ISO:    config.ISO,
		Pool:   PoolName,
		Volume: volumeName(config.Name),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	domain, err := l.DomainDefineXML(buf.String())
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(l.DomainCreate(domain))
}

// Destroy stops and undefines every lab machine and removes the lab storage
// pool.
func Destroy(ctx context.Context, l *libvirt.Libvirt) error {
	if err := destroyDomains(ctx, l); err != nil {
		return err
	}
	return destroyPool(l)
}

func destroyDomains(ctx context.Context, l *libvirt.Libvirt) error {
	domains, _, err := l.ConnectListAllDomains(1,
		libvirt.ConnectListDomainsActive|libvirt.ConnectListDomainsInactive)
	if err != nil {
		return errors.WithStack(err)
	}

	return parallel.Run(ctx, func(ctx context.Context, spawn parallel.SpawnFn) error {
		for _, d := range domains {
			xml, err := l.DomainGetXMLDesc(d, 0)
			if err != nil {
				return errors.WithStack(err)
			}
			if !strings.Contains(xml, labMarker) {
				continue
			}

			spawn("stopVM", parallel.Continue, func(ctx context.Context) error {
				log := logger.Get(ctx)

				for trial := 0; ; trial++ {
					if ctx.Err() != nil {
						return errors.WithStack(ctx.Err())
					}

					active, err := l.DomainIsActive(d)
					if err != nil {
						if isError(err, libvirt.ErrNoDomain) {
							return nil
						}
						return errors.WithStack(err)
					}

					if active == 0 {
						err := l.DomainUndefineFlags(d, libvirt.DomainUndefineManagedSave|
							libvirt.DomainUndefineSnapshotsMetadata|libvirt.DomainUndefineNvram|
							libvirt.DomainUndefineCheckpointsMetadata)
						if err == nil || isError(err, libvirt.ErrNoDomain) {
							return nil
						}
						return errors.WithStack(err)
					}

					err = l.DomainDestroy(d)
					switch {
					case err == nil:
						if trial%10 == 0 {
							log.Info("VM is still running", zap.String("vm", d.Name))
						}
						<-time.After(time.Second)
					case isError(err, libvirt.ErrNoDomain):
						return nil
					default:
						return errors.WithStack(err)
					}
				}
			})
		}

		return nil
	})
}

func destroyPool(l *libvirt.Libvirt) error {
	pool, err := l.StoragePoolLookupByName(PoolName)
	switch {
	case err == nil:
	case isError(err, libvirt.ErrNoStoragePool):
		return nil
	default:
		return errors.WithStack(err)
	}

	vols, _, err := l.StoragePoolListAllVolumes(pool, 1, 0)
	if err != nil {
		if isError(err, libvirt.ErrNoStoragePool) {
			return nil
		}
		return errors.WithStack(err)
	}
	for _, v := range vols {
		if err := l.StorageVolDelete(v, libvirt.StorageVolDeleteNormal); err != nil &&
			!isError(err, libvirt.ErrNoStorageVol) {
			return errors.WithStack(err)
		}
	}

	err = l.StoragePoolDestroy(pool)
	if err != nil && !isError(err, libvirt.ErrNoStoragePool) {
		return errors.WithStack(err)
	}
	err = l.StoragePoolDelete(pool, libvirt.StoragePoolDeleteNormal)
	if err != nil && !isError(err, libvirt.ErrNoStoragePool) {
		return errors.WithStack(err)
	}
	err = l.StoragePoolUndefine(pool)
	if err != nil && !isError(err, libvirt.ErrNoStoragePool) {
		return errors.WithStack(err)
	}

	return nil
}

func createVolume(l *libvirt.Libvirt, config Config) error {
	pool, err := l.StoragePoolLookupByName(PoolName)
	switch {
	case err == nil:
	case isError(err, libvirt.ErrNoStoragePool):
		pool, err = l.StoragePoolDefineXML(poolDef, 0)
		if err != nil {
			return errors.WithStack(err)
		}
		if err := l.StoragePoolBuild(pool, libvirt.StoragePoolBuildNew); err != nil {
			return errors.WithStack(err)
		}
	default:
		return errors.WithStack(err)
	}

	active, err := l.StoragePoolIsActive(pool)
	if err != nil {
		return errors.WithStack(err)
	}
	if active == 0 {
		if err := l.StoragePoolCreate(pool, libvirt.StoragePoolCreateNormal); err != nil {
			return errors.WithStack(err)
		}
	}

	name := volumeName(config.Name)
	_, err = l.StorageVolLookupByName(pool, name)
	switch {
	case err == nil:
		return nil
	case isError(err, libvirt.ErrNoStorageVol):
	default:
		return errors.WithStack(err)
	}

	buf := &bytes.Buffer{}
	err = volumeDefTmpl.Execute(buf, struct {
		Volume   string
		DiskSize uint64
	}{
		Volume:   name,
		DiskSize: config.DiskSize,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	_, err = l.StorageVolCreateXML(pool, buf.String(), 0)
	return errors.WithStack(err)
}

func volumeName(machine string) string {
	return machine + "-drive"
}

func isError(err error, expectedError libvirt.ErrorNumber) bool {
	var virtErr libvirt.Error
	if errors.As(err, &virtErr) {
		return virtErr.Code == uint32(expectedError)
	}
	return false
}
