package cinema

import (
	"fmt"

	intImage "github.com/cquammen/cinema/internal/image"
)

// SpriteSheet is one viewpoint's decoded image: equally sized slots
// stacked vertically, slot 0 at the top. The compositor only reads it.
type SpriteSheet struct {
	img        *ImageBuf
	slotHeight int
}

// NewSpriteSheet wraps a decoded sheet whose slots are slotHeight rows
// tall. The sheet height must be a whole number of slots.
func NewSpriteSheet(img *ImageBuf, slotHeight int) (*SpriteSheet, error) {
	if img == nil || slotHeight <= 0 || img.Height()%slotHeight != 0 {
		return nil, fmt.Errorf("%w: sheet cannot be split into slots of height %d", ErrSlotOutOfRange, slotHeight)
	}
	return &SpriteSheet{img: img, slotHeight: slotHeight}, nil
}

// NewSpriteSheetSlots wraps a decoded sheet holding exactly slots slots.
func NewSpriteSheetSlots(img *ImageBuf, slots int) (*SpriteSheet, error) {
	if img == nil || slots <= 0 {
		return nil, fmt.Errorf("%w: %d slots", ErrSlotOutOfRange, slots)
	}
	return NewSpriteSheet(img, img.Height()/slots)
}

// Image returns the whole sheet.
func (s *SpriteSheet) Image() *ImageBuf {
	return s.img
}

// SlotSize returns the width and height of one slot.
func (s *SpriteSheet) SlotSize() (width, height int) {
	return s.img.Width(), s.slotHeight
}

// Slots returns the number of slots in the sheet.
func (s *SpriteSheet) Slots() int {
	return s.img.Height() / s.slotHeight
}

// CopySlot copies slot into dst, which must be one slot in size.
func (s *SpriteSheet) CopySlot(dst *ImageBuf, slot int) error {
	if slot < 0 || slot >= s.Slots() {
		return fmt.Errorf("%w: slot %d of %d", ErrSlotOutOfRange, slot, s.Slots())
	}
	if err := intImage.CopyRows(dst, s.img, slot*s.slotHeight); err != nil {
		return fmt.Errorf("cinema: copy slot %d: %w", slot, err)
	}
	return nil
}
