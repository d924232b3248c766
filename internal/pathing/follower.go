package pathing

import (
	"errors"

	"github.com/annel0/voxelnav/internal/vec"
)

var (
	// ErrStaleRoute: следующий шаг маршрута стал недопустим после изменения мира
	ErrStaleRoute = errors.New("pathing: маршрут устарел")
	// ErrRouteFinished: маршрут уже пройден
	ErrRouteFinished = errors.New("pathing: маршрут пройден")
)

// Follower ведёт сущность по найденному маршруту и перед каждым шагом
// заново проверяет его по текущему состоянию мира. Маршрут мог устареть,
// пока шёл поиск: мир не блокируется на время поиска.
type Follower struct {
	route []vec.Vec3
	pos   int
}

// NewFollower создаёт Follower, стоящий в первой клетке маршрута
func NewFollower(route []vec.Vec3) *Follower {
	return &Follower{route: route}
}

// Current возвращает текущую клетку; false для пустого маршрута
func (f *Follower) Current() (vec.Vec3, bool) {
	if len(f.route) == 0 {
		return vec.Vec3{}, false
	}
	return f.route[f.pos], true
}

// Peek возвращает следующую клетку маршрута
func (f *Follower) Peek() (vec.Vec3, bool) {
	if f.Done() {
		return vec.Vec3{}, false
	}
	return f.route[f.pos+1], true
}

// Advance переходит в следующую клетку, если шаг всё ещё допустим.
// При ErrStaleRoute позиция не меняется и маршрут нужно построить заново.
func (f *Follower) Advance(w World) (vec.Vec3, error) {
	next, ok := f.Peek()
	if !ok {
		return vec.Vec3{}, ErrRouteFinished
	}
	if !CanStep(w, f.route[f.pos], next) {
		return f.route[f.pos], ErrStaleRoute
	}

	f.pos++
	return next, nil
}

// Remaining возвращает количество ещё не пройденных шагов
func (f *Follower) Remaining() int {
	if len(f.route) == 0 {
		return 0
	}
	return len(f.route) - 1 - f.pos
}

// Done сообщает, что маршрут пройден (или пуст)
func (f *Follower) Done() bool {
	return f.Remaining() == 0
}
