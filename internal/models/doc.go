// Package models defines the core domain models for Elka.
//
// # Models
//
//   - Rate: fixed number of leva (base currency) per euro (reference currency)
//   - LineItem: one priced entry on the bill, either a UnitItem or a WeightItem
//   - Bill: the live bill of one session (items, rate, tendered amount, language)
//
// # Design Principles
//
// 1. **Canonical currency**: items are stored in leva only; amounts entered in
// euro are converted before an item is created.
// 2. **Sealed variants**: LineItem can only be implemented inside this package,
// so every type switch over it has exactly two cases.
// 3. **Fixed-point weight**: weight is kept as whole kilograms plus grams
// (0..999) instead of decimal kilograms.
// 4. **Derived totals**: a Bill never stores totals; see package calculator.
package models
