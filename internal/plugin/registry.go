// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Editor Emoji Contributors

package plugin

import (
	"sort"
	"sync"

	"github.com/halo-sigs/plugin-editor-emoji/internal/plugin/capability"
	pluginsdk "github.com/halo-sigs/plugin-editor-emoji/pkg/plugin"
)

type registration struct {
	owner string
	ext   pluginsdk.Extension
}

// Registry stores the extensions contributed by plugins, keyed by extension
// point. Plugins see it through per-owner views returned by For, which check
// the owner's grants before every registration.
type Registry struct {
	enforcer *capability.Enforcer

	mu     sync.RWMutex
	points map[pluginsdk.ExtensionPoint][]registration
}

// NewRegistry creates a registry that checks grants with enforcer.
func NewRegistry(enforcer *capability.Enforcer) *Registry {
	if enforcer == nil {
		enforcer = capability.NewEnforcer()
	}
	return &Registry{
		enforcer: enforcer,
		points:   make(map[pluginsdk.ExtensionPoint][]registration),
	}
}

// Enforcer returns the enforcer used for grant checks.
func (r *Registry) Enforcer() *capability.Enforcer {
	return r.enforcer
}

// For returns the registry view handed to the plugin named owner.
func (r *Registry) For(owner string) pluginsdk.ExtensionRegistry {
	return &ownerView{registry: r, owner: owner}
}

// Extensions returns the extensions registered on point in registration order.
func (r *Registry) Extensions(point pluginsdk.ExtensionPoint) []pluginsdk.Extension {
	r.mu.RLock()
	defer r.mu.RUnlock()

	regs := r.points[point]
	out := make([]pluginsdk.Extension, len(regs))
	for i, reg := range regs {
		out[i] = reg.ext
	}
	return out
}

// Points returns the extension points that have at least one extension.
func (r *Registry) Points() []pluginsdk.ExtensionPoint {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pluginsdk.ExtensionPoint, 0, len(r.points))
	for p, regs := range r.points {
		if len(regs) > 0 {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// RemoveOwner drops every extension owned by owner and returns how many were
// removed. The host calls it after a plugin stops or fails to stop.
func (r *Registry) RemoveOwner(owner string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for p, regs := range r.points {
		kept := regs[:0]
		for _, reg := range regs {
			if reg.owner == owner {
				removed++
				continue
			}
			kept = append(kept, reg)
		}
		if len(kept) == 0 {
			delete(r.points, p)
			continue
		}
		r.points[p] = kept
	}
	return removed
}

func (r *Registry) register(owner string, point pluginsdk.ExtensionPoint, ext pluginsdk.Extension) error {
	if !r.enforcer.Check(owner, string(point)) {
		return ErrExtensionPointDenied(owner, point)
	}

	name := ext.ExtensionName()

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, reg := range r.points[point] {
		if reg.ext.ExtensionName() == name {
			return ErrExtensionExists(point, name)
		}
	}
	r.points[point] = append(r.points[point], registration{owner: owner, ext: ext})
	return nil
}

func (r *Registry) unregister(owner string, point pluginsdk.ExtensionPoint, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	regs := r.points[point]
	for i, reg := range regs {
		if reg.owner == owner && reg.ext.ExtensionName() == name {
			r.points[point] = append(regs[:i:i], regs[i+1:]...)
			if len(r.points[point]) == 0 {
				delete(r.points, point)
			}
			return nil
		}
	}
	return ErrExtensionNotFound(point, name)
}

type ownerView struct {
	registry *Registry
	owner    string
}

func (v *ownerView) Register(point pluginsdk.ExtensionPoint, ext pluginsdk.Extension) error {
	return v.registry.register(v.owner, point, ext)
}

func (v *ownerView) Unregister(point pluginsdk.ExtensionPoint, name string) error {
	return v.registry.unregister(v.owner, point, name)
}
