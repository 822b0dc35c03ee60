// Package layout maps a card count to slide geometry and typography.
//
// Every card deck slide is a 1920×1080 canvas holding a main title and a
// grid of N cards. The only input to the grid geometry is N: the number of
// columns, the gaps, the paddings, the icon size and the font-size tiers are
// looked up from a breakpoint [Table]. Text length never influences the
// descriptor; overflowing text is handled later by package fit.
//
// # Descriptors
//
// [Compute] returns a [Descriptor] for N using [DefaultTable]:
//
//	d := layout.Compute(5)
//	d.Bucket          // "5-6"
//	d.Columns         // 3
//	d.Rows            // 2
//	d.CardWidthCSS()  // "calc((100% - 64px) / 3)"
//
// The function is pure and total: N ≤ 0 yields the first rule with zero
// rows, and any N past the last finite rule falls into the open-ended rule.
// Columns are never zero, so width formulas never divide by zero.
//
// # Title configuration
//
// [ComputeTitleConfig] selects the starting and minimum font size for the
// main title from a coarser table (1-3, 4, 5-6, 7-8, 9+). Skins can replace
// individual buckets through [TitleOverrides] without touching the others.
//
// # Tiers
//
// Font sizes in a descriptor are [Tier] tokens such as "text-4xl" or
// "3.375rem", not pixels. [Tier.Px] resolves a token against a 16px root.
package layout
