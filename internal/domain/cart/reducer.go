// internal/domain/cart/reducer.go
package cart

// Action is a tagged cart mutation applied by Reduce
type Action interface {
	cartAction()
}

// AddLine adds a line, merging quantities into an existing line for the same product
type AddLine struct {
	Line CartLine
}

// SetQuantity changes a line's quantity; zero removes the line
type SetQuantity struct {
	LineID   int64
	Quantity int
}

// RemoveLine drops a line; a missing id is a no-op
type RemoveLine struct {
	LineID int64
}

// ReplaceAll swaps the whole cart for the server's lines
type ReplaceAll struct {
	Lines []CartLine
}

func (AddLine) cartAction()     {}
func (SetQuantity) cartAction() {}
func (RemoveLine) cartAction()  {}
func (ReplaceAll) cartAction()  {}

// Reduce applies action to c and returns the new cart. c is never modified.
func Reduce(c Cart, action Action) Cart {
	next := Cart{FetchedAt: c.FetchedAt}

	switch a := action.(type) {
	case AddLine:
		line := a.Line
		if line.Quantity < 0 {
			line.Quantity = 0
		}
		next.Lines = copyLines(c.Lines)
		for i := range next.Lines {
			if line.ProductID != 0 && next.Lines[i].ProductID == line.ProductID {
				next.Lines[i].Quantity += line.Quantity
				return next
			}
		}
		if line.Quantity > 0 {
			next.Lines = append(next.Lines, line)
		}

	case SetQuantity:
		quantity := a.Quantity
		if quantity <= 0 {
			return Reduce(c, RemoveLine{LineID: a.LineID})
		}
		next.Lines = copyLines(c.Lines)
		for i := range next.Lines {
			if next.Lines[i].ID == a.LineID {
				next.Lines[i].Quantity = quantity
			}
		}

	case RemoveLine:
		next.Lines = make([]CartLine, 0, len(c.Lines))
		for _, line := range c.Lines {
			if line.ID != a.LineID {
				next.Lines = append(next.Lines, line)
			}
		}

	case ReplaceAll:
		next.Lines = make([]CartLine, 0, len(a.Lines))
		for _, line := range a.Lines {
			next = Reduce(next, AddLine{Line: line})
		}

	default:
		next.Lines = copyLines(c.Lines)
	}

	return next
}

func copyLines(lines []CartLine) []CartLine {
	out := make([]CartLine, len(lines))
	copy(out, lines)
	return out
}
