// Package features derives model-ready tabular features from a user's
// financial transactions and from daily stock price quotes.
//
// The package is made of three pure transformations, chained by the caller:
//   - Transaction features: transactions are bucketed by calendar month into
//     income, expenses, net flow, a per-category expense matrix, category
//     ratios and net flow lag/trend columns. See [BuildMonthlyFeatures].
//   - Price features: quotes are partitioned per symbol and sorted by date,
//     then daily and log returns, rolling mean and standard deviation of the
//     close and a 14 periods RSI are computed within each symbol.
//     See [BuildPriceFeatures].
//   - Combined features: the daily price features of one benchmark symbol are
//     averaged per month and left joined onto the monthly transaction
//     features. See [Combine].
//
// Windowed columns are missing (not zero) until their window is full, and
// this is preserved when encoding the tables (empty CSV cells, JSON null).
//
// The delimited-file boundary is handled by [DecodeTransactions],
// [DecodePrices] and the Encode functions; [Run] chains everything for the
// `featgen` command-line tool.
package features
