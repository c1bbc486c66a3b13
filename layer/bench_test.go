// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package layer

import (
	"fmt"
	"testing"
)

func benchManager(layers, widgets int) *Manager {
	m := NewManager()
	for l := 0; l < layers; l++ {
		id := fmt.Sprintf("layer-%d", l)
		m.CreateLayer(id, l%5, TypeContent)
		for w := 0; w < widgets; w++ {
			m.AddWidgetToLayer(fmt.Sprintf("%s/w%d", id, w), id)
		}
	}
	return m
}

func BenchmarkRenderOrderCached(b *testing.B) {
	m := benchManager(10, 100)
	m.RenderOrder()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.RenderOrder()
	}
}

func BenchmarkRenderOrderRebuild(b *testing.B) {
	m := benchManager(10, 100)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.SetLayerVisibility("layer-0", i%2 == 0)
		m.RenderOrder()
	}
}
