// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pricing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBpsFeeConservation(t *testing.T) {
	require := require.New(t)

	amounts := []uint64{0, 1, 3, 9_999, 10_000, 1_000_000_000, math.MaxUint64}
	rates := []uint16{0, 1, 25, 100, 2_000, 9_999, MaxBPS}
	for _, amount := range amounts {
		for _, bps := range rates {
			fee, err := BpsFee(amount, bps)
			require.NoError(err)
			require.LessOrEqual(fee, amount)
			require.Equal(amount, fee+(amount-fee))
		}
	}

	_, err := BpsFee(1_000_000, MaxBPS+1)
	require.ErrorIs(err, ErrInvalidBps)
}

func TestBpsFeeFloors(t *testing.T) {
	require := require.New(t)

	// 25 bps of 1 FUND
	fee, err := BpsFee(1_000_000_000, 25)
	require.NoError(err)
	require.Equal(uint64(2_500_000), fee)

	// sub-unit amounts floor to zero
	fee, err = BpsFee(399, 25)
	require.NoError(err)
	require.Equal(uint64(0), fee)

	// full rate takes everything
	fee, err = BpsFee(777, MaxBPS)
	require.NoError(err)
	require.Equal(uint64(777), fee)
}

func TestProRataFeeOneYear(t *testing.T) {
	require := require.New(t)

	// 100 bps on 1e12 over exactly one year is exactly 1% of AUM.
	fee, err := ProRataFee(1_000_000_000_000, 100, SecondsPerYear)
	require.NoError(err)
	require.Equal(uint64(10_000_000_000), fee)
}

func TestProRataFeeZeroInputs(t *testing.T) {
	require := require.New(t)

	for _, tc := range []struct {
		aum     uint64
		bps     uint16
		elapsed int64
	}{
		{0, 100, SecondsPerYear},
		{1_000_000, 0, SecondsPerYear},
		{1_000_000, 100, 0},
		{1_000_000, 100, -1},
	} {
		fee, err := ProRataFee(tc.aum, tc.bps, tc.elapsed)
		require.NoError(err)
		require.Zero(fee)
	}
}

func TestProRataFeeShortWindows(t *testing.T) {
	require := require.New(t)

	// One week at 100 bps on 1e12: floor(1e12*100*604800/(1e4*31536000))
	fee, err := ProRataFee(1_000_000_000_000, 100, 7*24*60*60)
	require.NoError(err)
	require.Equal(uint64(191_780_821), fee)

	// One second on a tiny vault floors to zero rather than rounding up.
	fee, err = ProRataFee(1_000_000, 100, 1)
	require.NoError(err)
	require.Zero(fee)
}

func TestProRataFeeOverflow(t *testing.T) {
	require := require.New(t)

	_, err := ProRataFee(math.MaxUint64, MaxBPS, math.MaxInt64)
	require.ErrorIs(err, ErrOverflow)
}

func TestSharesForDeposit(t *testing.T) {
	require := require.New(t)

	// 1:1 price (one whole native unit per share)
	shares, err := SharesForDeposit(997_500_000, 1_000_000, PriceScale)
	require.NoError(err)
	require.Equal(uint64(997_500_000), shares)

	// doubled price halves shares
	shares, err = SharesForDeposit(997_500_000, 2_000_000, PriceScale)
	require.NoError(err)
	require.Equal(uint64(498_750_000), shares)

	// zero price falls back to 1:1
	shares, err = SharesForDeposit(123_456, 0, PriceScale)
	require.NoError(err)
	require.Equal(uint64(123_456), shares)

	_, err = SharesForDeposit(math.MaxUint64, 1, PriceScale)
	require.ErrorIs(err, ErrOverflow)
}

func TestProceedsForShares(t *testing.T) {
	require := require.New(t)

	proceeds, err := ProceedsForShares(997_500_000, 1_000_000, PriceScale)
	require.NoError(err)
	require.Equal(uint64(997_500_000), proceeds)

	proceeds, err = ProceedsForShares(3, 500_000, PriceScale)
	require.NoError(err)
	require.Equal(uint64(1), proceeds)

	_, err = ProceedsForShares(math.MaxUint64, math.MaxUint64, 1)
	require.ErrorIs(err, ErrOverflow)
}

func TestSharePrice(t *testing.T) {
	require := require.New(t)

	// NAV equal to supply quotes exactly one scale unit per share.
	price, err := SharePrice(997_500_000, 997_500_000, PriceScale)
	require.NoError(err)
	require.Equal(uint64(PriceScale), price)

	// Doubled NAV doubles the quote.
	price, err = SharePrice(2_000_000_000, 1_000_000_000, PriceScale)
	require.NoError(err)
	require.Equal(uint64(2_000_000), price)

	// Empty vaults quote zero, which mints 1:1.
	price, err = SharePrice(1_000_000, 0, PriceScale)
	require.NoError(err)
	require.Zero(price)
	price, err = SharePrice(0, 1_000_000, PriceScale)
	require.NoError(err)
	require.Zero(price)

	_, err = SharePrice(math.MaxUint64, 1, PriceScale)
	require.ErrorIs(err, ErrOverflow)
}

func TestDepositRedeemScenario(t *testing.T) {
	require := require.New(t)

	// Factory at 25/25 bps, deposit 1,000 FUND at a 1:1 share price.
	const (
		amount     = uint64(1_000_000_000)
		sharePrice = uint64(1_000_000)
	)

	entryFee, err := BpsFee(amount, 25)
	require.NoError(err)
	require.Equal(uint64(2_500_000), entryFee)

	net := amount - entryFee
	require.Equal(uint64(997_500_000), net)

	shares, err := SharesForDeposit(net, sharePrice, PriceScale)
	require.NoError(err)
	require.Equal(uint64(997_500_000), shares)

	// Immediate full redemption at the same price.
	gross, err := ProceedsForShares(shares, sharePrice, PriceScale)
	require.NoError(err)
	require.Equal(uint64(997_500_000), gross)

	exitFee, err := BpsFee(gross, 25)
	require.NoError(err)
	require.Equal(uint64(2_493_750), exitFee)

	require.Equal(uint64(995_006_250), gross-exitFee)
}

func TestRoundTripNeverProfits(t *testing.T) {
	require := require.New(t)

	amounts := []uint64{1, 1_000, 999_999, 1_000_000_000, 123_456_789_012}
	prices := []uint64{0, 1, 999_999, 1_000_000, 3_141_592}
	for _, amount := range amounts {
		for _, price := range prices {
			entryFee, err := BpsFee(amount, 25)
			require.NoError(err)
			shares, err := SharesForDeposit(amount-entryFee, price, PriceScale)
			require.NoError(err)

			redeemPrice := price
			if redeemPrice == 0 {
				// the 1:1 fallback corresponds to a price of one scale unit
				redeemPrice = PriceScale
			}
			gross, err := ProceedsForShares(shares, redeemPrice, PriceScale)
			require.NoError(err)
			exitFee, err := BpsFee(gross, 25)
			require.NoError(err)

			require.LessOrEqual(gross-exitFee, amount)
		}
	}
}

func TestSplitExactness(t *testing.T) {
	require := require.New(t)

	creator, platform, err := Split(1_000_000, 7_000)
	require.NoError(err)
	require.Equal(uint64(700_000), creator)
	require.Equal(uint64(300_000), platform)
	require.Equal(uint64(1_000_000), creator+platform)

	// Remainder absorbs the floored dust.
	creator, platform, err = Split(1_000_001, 7_000)
	require.NoError(err)
	require.Equal(uint64(700_000), creator)
	require.Equal(uint64(300_001), platform)
	require.Equal(uint64(1_000_001), creator+platform)

	_, _, err = Split(1, MaxBPS+1)
	require.ErrorIs(err, ErrInvalidBps)
}
