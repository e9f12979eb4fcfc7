package config

import (
	"context"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/onsi/gomega"
	"github.com/spf13/afero"

	"sparkcalc/sparkos/proto"
)

const sample = `
[window]
scale = 3
title = "calc"

[headless]
hz = 30

[theme]
background = "#102030"
focus = "#FACC15"
`

func TestLoad(t *testing.T) {
	g := gomega.NewWithT(t)
	fs := afero.NewMemMapFs()
	g.Expect(afero.WriteFile(fs, "sparkcalc.toml", []byte(sample), 0o644)).To(gomega.Succeed())

	cfg, err := Load(fs, "sparkcalc.toml")
	g.Expect(err).NotTo(gomega.HaveOccurred())
	g.Expect(cfg.Window).To(gomega.Equal(Window{Scale: 3, Title: "calc"}))
	g.Expect(cfg.Headless.Hz).To(gomega.Equal(30))
	g.Expect(cfg.Theme.Background).To(gomega.Equal("#102030"))
	g.Expect(cfg.Theme.IsZero()).To(gomega.BeFalse())
}

func TestLoadKeepsDefaultsForMissingTables(t *testing.T) {
	g := gomega.NewWithT(t)
	fs := afero.NewMemMapFs()
	g.Expect(afero.WriteFile(fs, "c.toml", []byte("[headless]\nhz = 10\n"), 0o644)).To(gomega.Succeed())

	cfg, err := Load(fs, "c.toml")
	g.Expect(err).NotTo(gomega.HaveOccurred())
	g.Expect(cfg.Window).To(gomega.Equal(Default().Window))
	g.Expect(cfg.Headless.Hz).To(gomega.Equal(10))
	g.Expect(cfg.Theme.IsZero()).To(gomega.BeTrue())
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "syntax", body: "[window\n", want: "config: parse"},
		{name: "unknown key", body: "[window]\nzoom = 2\n", want: "unknown keys window.zoom"},
		{name: "scale", body: "[window]\nscale = 0\n", want: "window.scale 0"},
		{name: "hz", body: "[headless]\nhz = 5000\n", want: "headless.hz 5000"},
		{name: "color", body: "[theme]\ntext = \"white\"\n", want: "theme.text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := gomega.NewWithT(t)
			fs := afero.NewMemMapFs()
			g.Expect(afero.WriteFile(fs, "c.toml", []byte(tt.body), 0o644)).To(gomega.Succeed())

			cfg, err := Load(fs, "c.toml")
			g.Expect(err).To(gomega.MatchError(gomega.ContainSubstring(tt.want)))
			g.Expect(cfg).To(gomega.Equal(Default()))
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	g := gomega.NewWithT(t)
	fs := afero.NewMemMapFs()

	_, err := Load(fs, "nope.toml")
	g.Expect(err).To(gomega.MatchError(os.ErrNotExist))

	cfg, found, err := LoadOptional(fs, "nope.toml")
	g.Expect(err).NotTo(gomega.HaveOccurred())
	g.Expect(found).To(gomega.BeFalse())
	g.Expect(cfg).To(gomega.Equal(Default()))
}

func TestResolve(t *testing.T) {
	g := gomega.NewWithT(t)
	base := proto.Theme{Text: color.RGBA{R: 1, G: 2, B: 3, A: 0xFF}}

	got, err := Theme{Background: "#102030", Focus: "#facc15"}.Resolve(base)
	g.Expect(err).NotTo(gomega.HaveOccurred())
	g.Expect(got.Background).To(gomega.Equal(color.RGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xFF}))
	g.Expect(got.Focus).To(gomega.Equal(color.RGBA{R: 0xFA, G: 0xCC, B: 0x15, A: 0xFF}))
	g.Expect(got.Text).To(gomega.Equal(base.Text))

	for _, bad := range []string{"102030", "#10203", "#1020304", "#gg0000"} {
		_, err := Theme{Clear: bad}.Resolve(base)
		g.Expect(err).To(gomega.MatchError(ErrBadColor), bad)
	}
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	g := gomega.NewWithT(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "sparkcalc.toml")
	g.Expect(os.WriteFile(path, []byte("[theme]\ntext = \"#000000\"\n"), 0o644)).To(gomega.Succeed())

	w := NewWatcher(afero.NewOsFs(), path)
	w.delay = 10 * time.Millisecond
	changes := make(chan Config, 4)
	w.OnChange = func(c Config) { changes <- c }
	w.OnError = func(err error) { t.Logf("watch: %v", err) }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// The watch is installed asynchronously; keep rewriting until a reload lands.
	g.Eventually(func() string {
		_ = os.WriteFile(path, []byte("[theme]\ntext = \"#ABCDEF\"\n"), 0o644)
		select {
		case c := <-changes:
			return c.Theme.Text
		case <-time.After(50 * time.Millisecond):
			return ""
		}
	}, 3*time.Second).Should(gomega.Equal("#ABCDEF"))

	cancel()
	g.Eventually(done).Should(gomega.Receive(gomega.BeNil()))
}
