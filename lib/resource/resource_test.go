// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

package resource

import "testing"

func TestUniqueIDFormats(t *testing.T) {
	cases := []struct {
		name string
		got  string
		want string
	}{
		{"model", NodeID(KindModel, "jaffle", "orders"), "model.jaffle.orders"},
		{"seed", NodeID(KindSeed, "jaffle", "raw_payments"), "seed.jaffle.raw_payments"},
		{"query", NodeID(KindQuery, "jaffle", "adhoc"), "query.jaffle.adhoc"},
		{"source", SourceID("jaffle", "stripe", "payments"), "source.jaffle.stripe.payments"},
		{"macro", MacroID("jaffle", "cents_to_dollars"), "macro.jaffle.cents_to_dollars"},
		{"doc", DocID("jaffle", "orders_status"), "doc.jaffle.orders_status"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.want {
				t.Errorf("got %q, want %q", tc.got, tc.want)
			}
		})
	}
}
