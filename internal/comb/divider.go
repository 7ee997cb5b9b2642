package comb

import "github.com/agbru/alusim/internal/bitvec"

// DivFlags collects the divider's condition outputs. Less and Borrow
// reflect the most recent round; ZeroDivisor is latched at initialization.
type DivFlags struct {
	ZeroDivisor bool
	Less        bool
	Borrow      bool
}

// DivState carries the restoring loop's registers between rounds. Rounds
// return a fresh state and never mutate their input, so snapshots of
// earlier rounds stay valid.
type DivState struct {
	Rem   bitvec.Vector
	Quot  bitvec.Vector
	Flags DivFlags
}

// DivInit latches the dividend as the opening remainder. A zero divisor is
// detected here and pins the result at (0, 0); the rounds then pass the
// state through untouched.
func DivInit(a, b bitvec.Vector) DivState {
	checkWidths(a, b)
	st := DivState{Rem: a.Clone(), Quot: bitvec.New(a.Width())}
	if b.IsZero() {
		st.Flags.ZeroDivisor = true
		st.Rem = bitvec.New(a.Width())
	}
	return st
}

// decompose reports the position of x's most significant set bit, walking
// the width from bit zero upward. decompose of zero reports position 0.
func decompose(x bitvec.Vector) int {
	pos := 0
	for i := 0; i < x.Width(); i++ {
		if x.Bit(i) {
			pos = i
		}
	}
	return pos
}

// align shifts b left so its leading bit lines up with the remainder's,
// backing off one position when the shifted divisor overshoots the
// remainder. The returned shift is where this round's quotient bit lands.
func align(rem, b bitvec.Vector) (int, bitvec.Vector) {
	shift := decompose(rem) - decompose(b)
	if shift < 0 {
		shift = 0
	}
	shifted, _ := Shift(b, ShiftSpec{Dir: DirLeft, Amount: shift})
	if shift > 0 && Greater(shifted, rem) {
		shift--
		shifted, _ = Shift(b, ShiftSpec{Dir: DirLeft, Amount: shift})
	}
	return shift, shifted
}

// DivStep performs one restoring round: align b against the current
// remainder, try the subtraction, and commit the quotient bit and new
// remainder only when it does not borrow. Once the remainder has dropped
// below the divisor every further round borrows and passes the state
// through, so the caller can always run a fixed round count.
func DivStep(b bitvec.Vector, st DivState) DivState {
	if st.Flags.ZeroDivisor {
		return st
	}
	st.Flags.Less = Less(st.Rem, b)
	shift, shifted := align(st.Rem, b)
	diff, borrow := Sub(st.Rem, shifted)
	st.Flags.Borrow = borrow
	if !borrow {
		st.Rem = diff
		st.Quot = st.Quot.Clone()
		st.Quot.SetBit(shift, true)
	}
	return st
}

// Divide returns the unsigned quotient and remainder of a/b. For b != 0,
//
//	a == b*q + r  and  r < b
//
// B = 0 yields (0, 0) with ZeroDivisor set. Exactly Width rounds run
// regardless of progress, keeping the round count identical for every
// input pair.
func Divide(a, b bitvec.Vector) (q, r bitvec.Vector, flags DivFlags) {
	st := DivInit(a, b)
	for i := 0; i < a.Width(); i++ {
		st = DivStep(b, st)
	}
	return st.Quot, st.Rem, st.Flags
}
