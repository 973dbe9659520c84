/*************************************************************************
 * Copyright 2026 Botad Authors. All rights reserved.
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package filter implements the endpoint membership tests the monitor
// uses to decide which flow records belong to a monitored host: fixed
// IP lists, fixed MAC lists, and IP ranges (CIDRs).
package filter

import (
	"net"
	"net/netip"
	"sort"

	"github.com/asergeyev/nradix"
	"github.com/danielpoliakov/bota/internal/boerr"
)

// By identifies which address family a Filter matches against.
type By int

const (
	ByIP By = iota
	ByMAC
	ByAny
)

// Filter is a membership test over an endpoint-identifying value.
// Construction can fail on malformed input; Apply never fails — an
// unparseable query value is simply not a member.
type Filter interface {
	FilterBy() By
	Apply(item string) bool
}

// ListFilter is a sorted, binary-searched membership test over opaque
// ordered strings.
type ListFilter struct {
	items []string
}

// NewListFilter builds a ListFilter over the given items.
func NewListFilter(items []string) *ListFilter {
	cp := append([]string(nil), items...)
	sort.Strings(cp)
	return &ListFilter{items: cp}
}

func (f *ListFilter) FilterBy() By { return ByAny }

func (f *ListFilter) Apply(item string) bool {
	i := sort.SearchStrings(f.items, item)
	return i < len(f.items) && f.items[i] == item
}

// IPListFilter is a sorted, binary-searched membership test over a
// fixed set of IP addresses (v4 or v6, mixed).
type IPListFilter struct {
	items []netip.Addr
}

// NewIPListFilter parses and sorts the given IP literals. A malformed
// literal is skipped rather than failing construction, matching the
// classifier's tolerant relay-list loading (bad lines in a large
// fetched list should not prevent startup).
func NewIPListFilter(ips []string) *IPListFilter {
	items := make([]netip.Addr, 0, len(ips))
	for _, s := range ips {
		if a, err := netip.ParseAddr(s); err == nil {
			items = append(items, a)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Less(items[j]) })
	return &IPListFilter{items: items}
}

func (f *IPListFilter) FilterBy() By { return ByIP }

func (f *IPListFilter) Apply(ip string) bool {
	a, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	i := sort.Search(len(f.items), func(i int) bool { return !f.items[i].Less(a) })
	return i < len(f.items) && f.items[i] == a
}

// Len reports the number of addresses currently held, for diagnostics.
func (f *IPListFilter) Len() int { return len(f.items) }

// MACListFilter is a sorted, binary-searched membership test over a
// fixed set of 48-bit MAC addresses.
type MACListFilter struct {
	items []uint64
}

// NewMACListFilter parses and sorts the given "xx:xx:xx:xx:xx:xx"
// literals, dropping malformed ones.
func NewMACListFilter(macs []string) *MACListFilter {
	items := make([]uint64, 0, len(macs))
	for _, s := range macs {
		if v, err := macToUint64(s); err == nil {
			items = append(items, v)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i] < items[j] })
	return &MACListFilter{items: items}
}

func (f *MACListFilter) FilterBy() By { return ByMAC }

func (f *MACListFilter) Apply(mac string) bool {
	v, err := macToUint64(mac)
	if err != nil {
		return false
	}
	i := sort.Search(len(f.items), func(i int) bool { return f.items[i] >= v })
	return i < len(f.items) && f.items[i] == v
}

func macToUint64(s string) (uint64, error) {
	hw, err := net.ParseMAC(s)
	if err != nil || len(hw) != 6 {
		if err == nil {
			err = boerr.BadInput
		}
		return 0, err
	}
	var v uint64
	for _, b := range hw {
		v = v<<8 | uint64(b)
	}
	return v, nil
}

// IPRangeFilter tests CIDR membership via a radix tree, so membership
// is a prefix walk rather than a mask-and-compare against a single
// range. asergeyev/nradix only indexes IPv4 prefixes; ranges are
// expected to describe a monitored IPv4 LAN segment, which is the
// only range shape the monitor's config schema exercises (see
// DESIGN.md).
type IPRangeFilter struct {
	tree *nradix.Tree
}

// NewIPRangeFilter parses the given CIDR literal. Returns boerr.BadInput
// on a malformed range.
func NewIPRangeFilter(cidr string) (*IPRangeFilter, error) {
	t := nradix.NewTree(32)
	if err := t.AddCIDR(cidr, true); err != nil {
		return nil, boerr.BadInput
	}
	return &IPRangeFilter{tree: t}, nil
}

func (f *IPRangeFilter) FilterBy() By { return ByIP }

func (f *IPRangeFilter) Apply(ip string) bool {
	if _, err := netip.ParseAddr(ip); err != nil {
		return false
	}
	v, err := f.tree.FindCIDR(ip)
	return err == nil && v != nil
}
