package board

// WinningColumns returns every column where dropping a piece for p wins
// immediately. Used for block detection and for the aggressive strategy
// presets; not called from the search hot path.
func WinningColumns(b *Board, p Player) []int {
	var wins []int
	for _, col := range b.LegalColumns() {
		c := b.Clone()
		c.SetOnTurn(p)
		if err := c.Apply(col); err != nil {
			continue
		}
		if c.Winner() == p {
			wins = append(wins, col)
		}
	}
	return wins
}
