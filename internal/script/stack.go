// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package script

import "fmt"

// stack represents the data stack used during script execution, holding
// raw byte-string elements; numeric and boolean interpretation is applied
// at use by scriptNum / asBool.
type stack struct {
	stk [][]byte
}

func (s *stack) Depth() int {
	return len(s.stk)
}

func (s *stack) PushByteArray(so []byte) {
	s.stk = append(s.stk, so)
}

func (s *stack) PushBool(val bool) {
	if val {
		s.PushByteArray([]byte{1})
	} else {
		s.PushByteArray(nil)
	}
}

func (s *stack) PushInt(n scriptNum) {
	s.PushByteArray(n.Bytes())
}

func (s *stack) PopByteArray() ([]byte, error) {
	return s.nipN(0)
}

func (s *stack) PopBool() (bool, error) {
	so, err := s.PopByteArray()
	if err != nil {
		return false, err
	}
	return asBool(so), nil
}

func (s *stack) PopInt() (scriptNum, error) {
	so, err := s.PopByteArray()
	if err != nil {
		return 0, err
	}
	return makeScriptNum(so, true, defaultScriptNumLen)
}

func (s *stack) PeekByteArray(idx int) ([]byte, error) {
	sz := len(s.stk)
	if idx < 0 || idx >= sz {
		return nil, scriptError(ErrInvalidStackOperation, "index out of range")
	}
	return s.stk[sz-idx-1], nil
}

func (s *stack) PeekInt(idx int) (scriptNum, error) {
	so, err := s.PeekByteArray(idx)
	if err != nil {
		return 0, err
	}
	return makeScriptNum(so, true, defaultScriptNumLen)
}

func (s *stack) PeekBool(idx int) (bool, error) {
	so, err := s.PeekByteArray(idx)
	if err != nil {
		return false, err
	}
	return asBool(so), nil
}

func (s *stack) nipN(idx int) ([]byte, error) {
	sz := len(s.stk)
	if idx < 0 || idx >= sz {
		return nil, scriptError(ErrInvalidStackOperation,
			fmt.Sprintf("index %d but stack has only %d items", idx, sz))
	}
	so := s.stk[sz-idx-1]
	s.stk = append(s.stk[:sz-idx-1], s.stk[sz-idx:]...)
	return so, nil
}

func (s *stack) NipN(idx int) error {
	_, err := s.nipN(idx)
	return err
}

func (s *stack) Tuck() error {
	so2, err := s.PopByteArray()
	if err != nil {
		return err
	}
	so1, err := s.PopByteArray()
	if err != nil {
		return err
	}
	s.PushByteArray(so2)
	s.PushByteArray(so1)
	s.PushByteArray(so2)
	return nil
}

func (s *stack) DropN(n int) error {
	for ; n > 0; n-- {
		if _, err := s.PopByteArray(); err != nil {
			return err
		}
	}
	return nil
}

func (s *stack) DupN(n int) error {
	if n < 1 {
		return scriptError(ErrInvalidStackOperation, "dup count must be positive")
	}
	for i := 0; i < n; i++ {
		so, err := s.PeekByteArray(n - 1)
		if err != nil {
			return err
		}
		s.PushByteArray(so)
	}
	return nil
}

func (s *stack) RotN(n int) error {
	entry := 3*n - 1
	for i := 0; i < n; i++ {
		so, err := s.nipN(entry)
		if err != nil {
			return err
		}
		s.PushByteArray(so)
	}
	return nil
}

func (s *stack) SwapN(n int) error {
	entry := n - 1
	for i := 0; i < n; i++ {
		so1, err := s.PeekByteArray(entry)
		if err != nil {
			return err
		}
		so2, err := s.PeekByteArray(entry + n)
		if err != nil {
			return err
		}
		s.stk[len(s.stk)-entry-1] = so2
		s.stk[len(s.stk)-entry-n-1] = so1
		entry--
	}
	return nil
}

func (s *stack) OverN(n int) error {
	for i := 0; i < n; i++ {
		so, err := s.PeekByteArray(2*n - 1)
		if err != nil {
			return err
		}
		s.PushByteArray(so)
	}
	return nil
}

func (s *stack) PickN(n int) error {
	so, err := s.PeekByteArray(n)
	if err != nil {
		return err
	}
	s.PushByteArray(so)
	return nil
}

func (s *stack) RollN(n int) error {
	so, err := s.nipN(n)
	if err != nil {
		return err
	}
	s.PushByteArray(so)
	return nil
}

func asBool(t []byte) bool {
	for i := range t {
		if t[i] != 0 {
			if i == len(t)-1 && t[i] == 0x80 {
				return false
			}
			return true
		}
	}
	return false
}

func fromBool(v bool) []byte {
	if v {
		return []byte{1}
	}
	return nil
}

// String renders the stack with the top element first, for diagnostics.
func (s *stack) String() string {
	var out string
	for i := len(s.stk) - 1; i >= 0; i-- {
		out += fmt.Sprintf("%02d: %x\n", i, s.stk[i])
	}
	return out
}
