// Package namegen 生成人类可读的随机邮箱前缀。
//
// 生成格式为 "形容词-名字-4位数字"（如 "quirky-lovelace-0427"），碰撞
// 概率极低但不保证唯一；唯一性由申领协议在存储侧兜底，生成器只需
// 足够便宜，允许申领冲突时反复调用。
package namegen

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// Generator 随机前缀生成器。
//
// 随机源在构造时注入，测试可传入固定种子的源精确复现碰撞重试行为。
// 并发安全：math/rand 的 Rand 本身不是并发安全的，内部加锁保护。
type Generator struct {
	mu     sync.Mutex
	random *rand.Rand
}

// New 创建使用时间种子的生成器。
func New() *Generator {
	return NewWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewWithSource 创建使用指定随机源的生成器。
func NewWithSource(source rand.Source) *Generator {
	return &Generator{random: rand.New(source)}
}

// Generate 返回一个新的候选前缀。
func (g *Generator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	adjective := adjectives[g.random.Intn(len(adjectives))]
	name := names[g.random.Intn(len(names))]
	suffix := g.random.Intn(10000)

	return fmt.Sprintf("%s-%s-%04d", adjective, name, suffix)
}
