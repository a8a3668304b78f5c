// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Editor Emoji Contributors

package plugin_test

import (
	"context"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/halo-sigs/plugin-editor-emoji/internal/editor"
	plugins "github.com/halo-sigs/plugin-editor-emoji/internal/plugin"
	pluginsdk "github.com/halo-sigs/plugin-editor-emoji/pkg/plugin"
	"github.com/halo-sigs/plugin-editor-emoji/plugins/editoremoji"
)

var _ = Describe("Editor emoji plugin lifecycle", func() {
	var (
		ctx      context.Context
		mgr      *plugins.Manager
		builtin  *plugins.Manifest
		tempDir  string
		emojiExt = func() *editor.Extension {
			exts := mgr.Registry().Extensions(pluginsdk.ExtensionPointEditorCreate)
			if len(exts) != 1 {
				return nil
			}
			ext, _ := exts[0].(*editor.Extension)
			return ext
		}
	)

	BeforeEach(func() {
		ctx = context.Background()
		tempDir = GinkgoT().TempDir()

		var err error
		builtin, err = plugins.ParseManifest(editoremoji.ManifestYAML)
		Expect(err).NotTo(HaveOccurred())

		mgr = plugins.NewManager(tempDir,
			plugins.WithLogger(quietLogger()),
			plugins.WithRetryBase(time.Millisecond),
			plugins.WithFactory(editoremoji.Name, editoremoji.Factory),
			plugins.WithBuiltin(builtin),
		)
	})

	AfterEach(func() {
		Expect(mgr.Close(ctx)).To(Succeed())
	})

	Describe("with the builtin manifest", func() {
		BeforeEach(func() {
			Expect(mgr.LoadAll(ctx)).To(Succeed())
		})

		It("loads the plugin stopped", func() {
			Expect(mgr.ListPlugins()).To(ConsistOf(editoremoji.Name))
			state, err := mgr.State(editoremoji.Name)
			Expect(err).NotTo(HaveOccurred())
			Expect(state).To(Equal(pluginsdk.StateStopped))
			Expect(emojiExt()).To(BeNil())
		})

		It("contributes the emoji extension while started", func() {
			Expect(mgr.StartAll(ctx)).To(Succeed())
			Expect(mgr.Ready()).To(BeTrue())

			ext := emojiExt()
			Expect(ext).NotTo(BeNil())
			Expect(ext.Catalog().Locale().Name).To(Equal("zh"))

			html, err := ext.RenderHTML("smile")
			Expect(err).NotTo(HaveOccurred())
			Expect(html).To(ContainSubstring(`class="emoji-node"`))

			Expect(mgr.StopAll(ctx)).To(Succeed())
			Expect(emojiExt()).To(BeNil())
		})

		It("survives a restart", func() {
			Expect(mgr.Start(ctx, editoremoji.Name)).To(Succeed())
			Expect(mgr.Restart(ctx, editoremoji.Name)).To(Succeed())
			Expect(emojiExt()).NotTo(BeNil())
		})
	})

	Describe("with a manifest in the plugins directory", func() {
		It("prefers the directory manifest over the builtin one", func() {
			dir := filepath.Join(tempDir, "emoji")
			Expect(os.MkdirAll(dir, 0o750)).To(Succeed())
			manifest := `
name: editor-emoji
version: 1.1.0
extension-points:
  - default:editor:extension:create
settings:
  locale: en
  emoticons: false
`
			Expect(os.WriteFile(filepath.Join(dir, plugins.ManifestFile), []byte(manifest), 0o600)).To(Succeed())

			Expect(mgr.LoadAll(ctx)).To(Succeed())
			Expect(mgr.StartAll(ctx)).To(Succeed())

			info := mgr.Info()
			Expect(info).To(HaveLen(1))
			Expect(info[0].Version).To(Equal("1.1.0"))

			ext := emojiExt()
			Expect(ext).NotTo(BeNil())
			Expect(ext.Catalog().Locale().Name).To(Equal("en"))
			Expect(ext.Options().EnableEmoticons).To(BeFalse())
		})

		It("refuses to start without the editor grant", func() {
			dir := filepath.Join(tempDir, "emoji")
			Expect(os.MkdirAll(dir, 0o750)).To(Succeed())
			manifest := "name: editor-emoji\nversion: 1.0.0\nextension-points: [\"console:**\"]\n"
			Expect(os.WriteFile(filepath.Join(dir, plugins.ManifestFile), []byte(manifest), 0o600)).To(Succeed())

			mgr = plugins.NewManager(tempDir,
				plugins.WithLogger(quietLogger()),
				plugins.WithStartRetries(0),
				plugins.WithFactory(editoremoji.Name, editoremoji.Factory),
			)
			Expect(mgr.LoadAll(ctx)).To(Succeed())

			err := mgr.Start(ctx, editoremoji.Name)
			Expect(err).To(MatchError(ContainSubstring("may not extend")))

			state, stateErr := mgr.State(editoremoji.Name)
			Expect(stateErr).NotTo(HaveOccurred())
			Expect(state).To(Equal(pluginsdk.StateStopped))
		})
	})
})
