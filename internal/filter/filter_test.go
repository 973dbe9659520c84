/*************************************************************************
 * Copyright 2026 Botad Authors. All rights reserved.
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package filter

import "testing"

func TestListFilter(t *testing.T) {
	f := NewListFilter([]string{"a", "x", "b", "y", "c"})

	for _, member := range []string{"a", "x", "b", "y", "c"} {
		if !f.Apply(member) {
			t.Errorf("expected %q to be a member", member)
		}
	}
	for _, nonMember := range []string{"d", "w"} {
		if f.Apply(nonMember) {
			t.Errorf("expected %q to not be a member", nonMember)
		}
	}
}

func TestIPListFilter(t *testing.T) {
	f := NewIPListFilter([]string{
		"192.168.0.1", "192.168.0.5", "192.168.0.2", "192.168.0.3", "192.168.0.4",
	})

	for _, member := range []string{"192.168.0.1", "192.168.0.2", "192.168.0.3", "192.168.0.4", "192.168.0.5"} {
		if !f.Apply(member) {
			t.Errorf("expected %q to be a member", member)
		}
	}
	for _, nonMember := range []string{"192.168.0.6", "192.168.0.50"} {
		if f.Apply(nonMember) {
			t.Errorf("expected %q to not be a member", nonMember)
		}
	}
}

func TestIPListFilterMixedFamily(t *testing.T) {
	f := NewIPListFilter([]string{"10.0.0.1", "2001:db8::1"})
	if !f.Apply("10.0.0.1") || !f.Apply("2001:db8::1") {
		t.Fatal("expected both v4 and v6 members present")
	}
	if f.Apply("10.0.0.2") {
		t.Fatal("expected 10.0.0.2 to not be a member")
	}
}

func TestMACListFilter(t *testing.T) {
	f := NewMACListFilter([]string{
		"aa:aa:aa:aa:aa:aa", "cc:cc:cc:cc:cc:cc", "bb:bb:bb:bb:bb:bb",
		"dd:dd:dd:dd:dd:dd", "ff:ff:ff:ff:ff:ff",
	})

	for _, member := range []string{
		"aa:aa:aa:aa:aa:aa", "bb:bb:bb:bb:bb:bb", "cc:cc:cc:cc:cc:cc",
		"dd:dd:dd:dd:dd:dd", "ff:ff:ff:ff:ff:ff",
	} {
		if !f.Apply(member) {
			t.Errorf("expected %q to be a member", member)
		}
	}
	for _, nonMember := range []string{"ee:ee:ee:ee:ee:ee", "ab:ab:ab:ab:ab:ab"} {
		if f.Apply(nonMember) {
			t.Errorf("expected %q to not be a member", nonMember)
		}
	}
}

func TestIPRangeFilter(t *testing.T) {
	f, err := NewIPRangeFilter("192.168.0.0/24")
	if err != nil {
		t.Fatalf("NewIPRangeFilter: %v", err)
	}
	for _, member := range []string{"192.168.0.1", "192.168.0.25", "192.168.0.50", "192.168.0.100", "192.168.0.254"} {
		if !f.Apply(member) {
			t.Errorf("expected %q to be in range", member)
		}
	}
	for _, nonMember := range []string{"10.0.0.1", "192.168.1.1"} {
		if f.Apply(nonMember) {
			t.Errorf("expected %q to not be in range", nonMember)
		}
	}
}

func TestIPRangeFilterBadCIDR(t *testing.T) {
	if _, err := NewIPRangeFilter("not-a-cidr"); err == nil {
		t.Fatal("expected error for malformed CIDR")
	}
}
