package build

// Config is the configuration of the live image builder.
type Config struct {
	Base           Base
	LauncherBin    string
	ChrootBin      string
	LiveImagePath  string
	SettingsTarget string
}

// Base represents the source of the base live filesystem.
type Base struct {
	URL    string
	SHA256 string
}

var config = Config{
	Base: Base{
		URL:    "https://github.com/debuerreotype/docker-debian-artifacts/raw/4ee296ae07c273a84d1e1c37e6cc951fbf986d29/bookworm/rootfs.tar.xz", //nolint:lll
		SHA256: "b4c2d60180a0b2837b12d8bc16ee1a6e27cfddcc29b2c86d8ec2d1432e1b3957",
	},
	LauncherBin:    launcherBinPath,
	ChrootBin:      chrootBinPath,
	LiveImagePath:  "bin/live/filesystem.tar.xz",
	SettingsTarget: "etc/bedrock/settings.json",
}
