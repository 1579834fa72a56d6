package interpreter

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Pages of 4 KiB. Memory is a flat VMMaxRAM address space, pages are only allocated once written.
const (
	PageAddrSize = 12
	PageSize     = 1 << PageAddrSize
	PageAddrMask = PageSize - 1
)

type Page [PageSize]byte

func (p *Page) MarshalText() ([]byte, error) {
	dst := make([]byte, hex.EncodedLen(PageSize))
	hex.Encode(dst, p[:])
	return dst, nil
}

func (p *Page) UnmarshalText(dat []byte) error {
	if len(dat) != 2*PageSize {
		return fmt.Errorf("expected %d hex chars, got %d", 2*PageSize, len(dat))
	}
	_, err := hex.Decode(p[:], dat)
	return err
}

// Memory is the raw byte store behind the VM memory. It does no ownership checks;
// those belong to the interpreter, which knows the stack and heap registers.
type Memory struct {
	pages map[uint64]*Page

	// we often fetch instructions from one page and touch data on another
	lastPageKeys [2]uint64
	lastPage     [2]*Page
}

func NewMemory() *Memory {
	return &Memory{
		pages:        make(map[uint64]*Page),
		lastPageKeys: [2]uint64{^uint64(0), ^uint64(0)},
	}
}

func (m *Memory) PageCount() int {
	return len(m.pages)
}

func (m *Memory) pageLookup(pageIndex uint64) (*Page, bool) {
	if pageIndex == m.lastPageKeys[0] {
		return m.lastPage[0], true
	}
	if pageIndex == m.lastPageKeys[1] {
		return m.lastPage[1], true
	}
	p, ok := m.pages[pageIndex]
	if ok {
		m.lastPageKeys[1] = m.lastPageKeys[0]
		m.lastPage[1] = m.lastPage[0]
		m.lastPageKeys[0] = pageIndex
		m.lastPage[0] = p
	}
	return p, ok
}

func (m *Memory) allocPage(pageIndex uint64) *Page {
	p := new(Page)
	m.pages[pageIndex] = p
	return p
}

// Read fills dest from addr. Unwritten bytes read as zero.
func (m *Memory) Read(addr uint64, dest []byte) {
	for len(dest) > 0 {
		pageAddr := addr & PageAddrMask
		n := PageSize - pageAddr
		if n > uint64(len(dest)) {
			n = uint64(len(dest))
		}
		if p, ok := m.pageLookup(addr >> PageAddrSize); ok {
			copy(dest[:n], p[pageAddr:])
		} else {
			clear(dest[:n])
		}
		dest = dest[n:]
		addr += n
	}
}

// Write copies dat to addr, allocating pages as needed.
func (m *Memory) Write(addr uint64, dat []byte) {
	for len(dat) > 0 {
		pageIndex := addr >> PageAddrSize
		pageAddr := addr & PageAddrMask
		p, ok := m.pageLookup(pageIndex)
		if !ok {
			p = m.allocPage(pageIndex)
		}
		n := copy(p[pageAddr:], dat)
		dat = dat[n:]
		addr += uint64(n)
	}
}

// Clear zeroes count bytes from addr. Pages that were never written are left unallocated.
func (m *Memory) Clear(addr, count uint64) {
	for count > 0 {
		pageAddr := addr & PageAddrMask
		n := PageSize - pageAddr
		if n > count {
			n = count
		}
		if p, ok := m.pageLookup(addr >> PageAddrSize); ok {
			clear(p[pageAddr : pageAddr+n])
		}
		count -= n
		addr += n
	}
}

func (m *Memory) ReadWord(addr uint64) uint64 {
	var b [8]byte
	m.Read(addr, b[:])
	return binary.BigEndian.Uint64(b[:])
}

func (m *Memory) WriteWord(addr, v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	m.Write(addr, b[:])
}

func (m *Memory) ReadHash(addr uint64) (out common.Hash) {
	m.Read(addr, out[:])
	return
}

// Slice returns a copy of count bytes from addr.
func (m *Memory) Slice(addr, count uint64) []byte {
	out := make([]byte, count)
	m.Read(addr, out)
	return out
}

// Equal compares two ranges without copying them out.
func (m *Memory) Equal(a, b, count uint64) bool {
	var x, y [256]byte
	for count > 0 {
		n := uint64(len(x))
		if n > count {
			n = count
		}
		m.Read(a, x[:n])
		m.Read(b, y[:n])
		if !bytes.Equal(x[:n], y[:n]) {
			return false
		}
		a += n
		b += n
		count -= n
	}
	return true
}

func (m *Memory) sortedPages() []uint64 {
	keys := make([]uint64, 0, len(m.pages))
	for k := range m.pages {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

var zeroPage Page

// Hash commits to the memory contents. All-zero pages are skipped, so the hash only
// depends on what is observable.
func (m *Memory) Hash() common.Hash {
	h := crypto.NewKeccakState()
	var idx [8]byte
	for _, k := range m.sortedPages() {
		p := m.pages[k]
		if *p == zeroPage {
			continue
		}
		binary.BigEndian.PutUint64(idx[:], k)
		h.Write(idx[:])
		h.Write(p[:])
	}
	var out common.Hash
	h.Read(out[:])
	return out
}

type pageEntry struct {
	Index uint64 `json:"index"`
	Data  *Page  `json:"data"`
}

func (m *Memory) MarshalJSON() ([]byte, error) {
	keys := m.sortedPages()
	pages := make([]pageEntry, 0, len(keys))
	for _, k := range keys {
		pages = append(pages, pageEntry{Index: k, Data: m.pages[k]})
	}
	return json.Marshal(pages)
}

func (m *Memory) UnmarshalJSON(data []byte) error {
	var pages []pageEntry
	if err := json.Unmarshal(data, &pages); err != nil {
		return err
	}
	m.pages = make(map[uint64]*Page)
	m.lastPageKeys = [2]uint64{^uint64(0), ^uint64(0)}
	m.lastPage = [2]*Page{nil, nil}
	for i, p := range pages {
		if _, ok := m.pages[p.Index]; ok {
			return fmt.Errorf("cannot load duplicate page, entry %d, page index %d", i, p.Index)
		}
		if p.Data == nil {
			return fmt.Errorf("page %d has no data", p.Index)
		}
		m.pages[p.Index] = p.Data
	}
	return nil
}

func (m *Memory) Usage() string {
	total := uint64(len(m.pages)) * PageSize
	const unit = 1024
	if total < unit {
		return fmt.Sprintf("%d B", total)
	}
	div, exp := uint64(unit), 0
	for n := total / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	// KiB, MiB, GiB, TiB, ...
	return fmt.Sprintf("%.1f %ciB", float64(total)/float64(div), "KMGTPE"[exp])
}
