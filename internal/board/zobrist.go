package board

// Zobrist keys for position hashing.
// Uses PRNG with fixed seed for reproducibility.
var (
	zobristPiece      [2][7][64]uint64 // [Color][PieceType][Square], NoPieceType row unused
	zobristEnPassant  [8]uint64        // one per column
	zobristCastling   [16]uint64       // all 16 castling combinations
	zobristSideToMove uint64           // XOR when black to move
)

func init() {
	initZobrist()
}

// Simple PRNG for reproducible Zobrist keys
type prng struct {
	state uint64
}

func newPRNG(seed uint64) *prng {
	return &prng{state: seed}
}

// xorshift64* algorithm
func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

func initZobrist() {
	rng := newPRNG(0x98F107A2BEEF1234)

	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			for sq := Square(0); sq < NoSquare; sq++ {
				zobristPiece[c][pt][sq] = rng.next()
			}
		}
	}
	for col := range zobristEnPassant {
		zobristEnPassant[col] = rng.next()
	}
	for i := range zobristCastling {
		zobristCastling[i] = rng.next()
	}
	zobristSideToMove = rng.next()
}

// Hash returns the Zobrist key of the position, computed from scratch. Two
// positions with equal FEN placement, side, castling rights and en passant
// target hash equally; the move clocks are not part of the key.
func (p *Position) Hash() uint64 {
	var h uint64
	for sq := Square(0); sq < NoSquare; sq++ {
		if pc, ok := p.pieceAt(sq); ok {
			h ^= zobristPiece[pc.Color][pc.Type][sq]
		}
	}
	if p.sideToMove == Black {
		h ^= zobristSideToMove
	}
	h ^= zobristCastling[p.castling]
	if p.enPassant != NoSquare {
		h ^= zobristEnPassant[p.enPassant.Col()]
	}
	return h
}
