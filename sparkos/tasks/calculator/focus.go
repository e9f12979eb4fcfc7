package calculator

import "sparkcalc/sparkos/calc"

// focus is the keyboard cursor over the keypad grid. col is a cell column so
// leaving a wide button vertically lands on a predictable neighbour.
type focus struct {
	row int
	col int
}

func focusOn(k calc.Key) focus {
	b := calc.Keypad[calc.ButtonFor(k)]
	return focus{row: b.Row, col: b.Col}
}

func (f focus) button() calc.Button { return calc.Keypad[calc.ButtonAt(f.row, f.col)] }

func (f focus) left() focus {
	col := f.button().Col - 1
	if col < 0 {
		col = calc.KeypadCols - 1
	}
	return focus{row: f.row, col: calc.Keypad[calc.ButtonAt(f.row, col)].Col}
}

func (f focus) right() focus {
	b := f.button()
	col := b.Col + b.Span
	if col >= calc.KeypadCols {
		col = 0
	}
	return focus{row: f.row, col: col}
}

func (f focus) up() focus {
	return focus{row: (f.row + calc.KeypadRows - 1) % calc.KeypadRows, col: f.col}
}

func (f focus) down() focus {
	return focus{row: (f.row + 1) % calc.KeypadRows, col: f.col}
}

// home and end jump to the first and last button of the row.
func (f focus) home() focus { return focus{row: f.row, col: 0} }

func (f focus) end() focus {
	return focus{row: f.row, col: calc.Keypad[calc.ButtonAt(f.row, calc.KeypadCols-1)].Col}
}
