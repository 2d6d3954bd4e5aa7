package fancy

// AddMany sums a slice of wires left to right. Mirrors the bonus
// `add_many` default method in the original Fancy trait.
func AddMany[W any](f Fancy[W], xs []W) (W, error) {
	var zero W
	if len(xs) == 0 {
		return zero, ErrInvalidArgNum
	}
	z := xs[0]
	var err error
	for _, x := range xs[1:] {
		z, err = f.Add(z, x)
		if err != nil {
			return zero, err
		}
	}
	return z, nil
}

// Xor is addition restricted to mod-2 wires.
func Xor[W any](f Fancy[W], x, y W) (W, error) {
	var zero W
	if f.Modulus(x) != 2 || f.Modulus(y) != 2 {
		return zero, ErrUnequalModuli
	}
	return f.Add(x, y)
}

// Negate flips a mod-2 wire by XORing it with the constant 1.
func Negate[W any](f Fancy[W], x W) (W, error) {
	var zero W
	if f.Modulus(x) != 2 {
		return zero, ErrUnequalModuli
	}
	one, err := f.Constant(1, 2)
	if err != nil {
		return zero, err
	}
	return Xor(f, x, one)
}

// And is multiplication restricted to mod-2 wires.
func And[W any](f Fancy[W], x, y W) (W, error) {
	var zero W
	if f.Modulus(x) != 2 || f.Modulus(y) != 2 {
		return zero, ErrUnequalModuli
	}
	return f.Mul(x, y)
}

// AndMany returns 1 if every wire in args equals 1.
func AndMany[W any](f Fancy[W], args []W) (W, error) {
	var zero W
	if len(args) == 0 {
		return zero, ErrInvalidArgNum
	}
	acc := args[0]
	var err error
	for _, x := range args[1:] {
		acc, err = And(f, acc, x)
		if err != nil {
			return zero, err
		}
	}
	return acc, nil
}

// OrMany returns 1 if any wire in args equals 1, computed without any free
// OR by lifting into base b+1, summing, and projecting back to mod 2 (the
// same trick the original Fancy trait's `or_many` uses to avoid needing a
// dedicated OR gate).
func OrMany[W any](f Fancy[W], args []W) (W, error) {
	var zero W
	if len(args) == 0 {
		return zero, ErrInvalidArgNum
	}
	for _, x := range args {
		if f.Modulus(x) != 2 {
			return zero, ErrUnequalModuli
		}
	}
	b := uint16(len(args))
	lifted := make([]W, len(args))
	for i, x := range args {
		w, err := f.Proj(x, b+1, []uint16{0, 1})
		if err != nil {
			return zero, err
		}
		lifted[i] = w
	}
	sum, err := AddMany(f, lifted)
	if err != nil {
		return zero, err
	}
	tab := make([]uint16, b+1)
	for i := range tab {
		if i == 0 {
			tab[i] = 0
		} else {
			tab[i] = 1
		}
	}
	return f.Proj(sum, 2, tab)
}

// Or is the two-argument case of OrMany.
func Or[W any](f Fancy[W], x, y W) (W, error) {
	return OrMany(f, []W{x, y})
}

// ModChange re-projects x from its current modulus into toModulus via the
// identity-mod-toModulus truth table.
func ModChange[W any](f Fancy[W], x W, toModulus uint16) (W, error) {
	fromModulus := f.Modulus(x)
	if fromModulus == toModulus {
		return x, nil
	}
	tt := make([]uint16, fromModulus)
	for v := range tt {
		tt[v] = uint16(v) % toModulus
	}
	return f.Proj(x, toModulus, tt)
}

// Mux returns y if s == 1, else x (s must be mod 2). Used by BinAbs,
// grounded on the original Fancy trait's `multiplex`.
func Mux[W any](f Fancy[W], s, x, y W) (W, error) {
	var zero W
	if f.Modulus(s) != 2 {
		return zero, ErrUnequalModuli
	}
	notS, err := Negate(f, s)
	if err != nil {
		return zero, err
	}
	xp, err := f.Mul(x, notS)
	if err != nil {
		return zero, err
	}
	// Lift s into y's modulus so both Mul operands share a modulus.
	sInY, err := ModChange(f, s, f.Modulus(y))
	if err != nil {
		return zero, err
	}
	yp, err := f.Mul(y, sInY)
	if err != nil {
		return zero, err
	}
	return f.Add(xp, yp)
}
