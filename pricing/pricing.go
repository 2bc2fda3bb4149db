// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package pricing implements the fee and share arithmetic used by every
// value-moving action. All intermediate products are computed in 128 bits
// and any quotient that does not fit in 64 bits aborts the caller instead
// of wrapping. Divisions truncate toward zero, which always rounds in the
// protocol's favor.
package pricing

import "math/bits"

const (
	// MaxBPS is the fixed-point basis of all fee rates (100% = 10_000).
	MaxBPS = 10_000

	// SecondsPerYear is the annualization denominator for management fees.
	SecondsPerYear = 365 * 24 * 60 * 60

	// PriceScale is the number of native base units per whole share at a
	// share price of 1. Share prices are supplied in native base units per
	// whole share, so a 6-decimal share ledger uses a scale of 10^6.
	PriceScale = 1_000_000
)

// mul128 returns hi*2^64+lo multiplied by v, failing when the product
// exceeds 128 bits.
func mul128(hi uint64, lo uint64, v uint64) (uint64, uint64, error) {
	loHi, loLo := bits.Mul64(lo, v)
	hvHi, hvLo := bits.Mul64(hi, v)
	if hvHi != 0 {
		return 0, 0, ErrOverflow
	}
	newHi, carry := bits.Add64(hvLo, loHi, 0)
	if carry != 0 {
		return 0, 0, ErrOverflow
	}
	return newHi, loLo, nil
}

// div128 returns floor((hi*2^64+lo)/d), failing when the quotient does not
// fit in 64 bits.
func div128(hi uint64, lo uint64, d uint64) (uint64, error) {
	if hi >= d {
		return 0, ErrOverflow
	}
	q, _ := bits.Div64(hi, lo, d)
	return q, nil
}

// mulDiv returns floor(a*b/d) with a 128-bit intermediate product.
func mulDiv(a uint64, b uint64, d uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	return div128(hi, lo, d)
}

// BpsFee returns floor(amount*bps/MaxBPS). The result never exceeds
// [amount], so a fee can always be deducted from the amount it was
// computed on.
func BpsFee(amount uint64, bps uint16) (uint64, error) {
	if bps > MaxBPS {
		return 0, ErrInvalidBps
	}
	return mulDiv(amount, uint64(bps), MaxBPS)
}

// ProRataFee returns the management fee accrued on [aum] at [annualBps]
// over [elapsed] seconds: floor(aum*annualBps*elapsed/(MaxBPS*SecondsPerYear)).
// A zero rate, zero AUM, or non-positive elapsed time accrues nothing.
func ProRataFee(aum uint64, annualBps uint16, elapsed int64) (uint64, error) {
	if annualBps > MaxBPS {
		return 0, ErrInvalidBps
	}
	if aum == 0 || annualBps == 0 || elapsed <= 0 {
		return 0, nil
	}
	hi, lo := bits.Mul64(aum, uint64(annualBps))
	hi, lo, err := mul128(hi, lo, uint64(elapsed))
	if err != nil {
		return 0, err
	}
	return div128(hi, lo, MaxBPS*SecondsPerYear)
}

// SharesForDeposit returns the shares minted for a net deposit at
// [sharePrice] native base units per whole share: floor(net*scale/sharePrice).
// A zero share price falls back to 1:1 (first deposit against an empty
// vault, where no market price exists yet).
func SharesForDeposit(net uint64, sharePrice uint64, scale uint64) (uint64, error) {
	if sharePrice == 0 {
		return net, nil
	}
	return mulDiv(net, scale, sharePrice)
}

// ProceedsForShares returns the gross redemption value of [shares] at
// [sharePrice]: floor(shares*sharePrice/scale).
func ProceedsForShares(shares uint64, sharePrice uint64, scale uint64) (uint64, error) {
	return mulDiv(shares, sharePrice, scale)
}

// SharePrice quotes the price of one whole share against [nav] native base
// units backing [supply] shares: floor(nav*scale/supply). An empty vault
// quotes zero, which mints and redeems 1:1.
func SharePrice(nav uint64, supply uint64, scale uint64) (uint64, error) {
	if supply == 0 || nav == 0 {
		return 0, nil
	}
	return mulDiv(nav, scale, supply)
}

// Split divides [total] by [ratioBps], flooring the carved-out part and
// assigning the remainder to the counterparty so the two always sum back
// to [total].
func Split(total uint64, ratioBps uint16) (uint64, uint64, error) {
	part, err := BpsFee(total, ratioBps)
	if err != nil {
		return 0, 0, err
	}
	return part, total - part, nil
}
