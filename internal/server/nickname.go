package server

import (
	"math/rand"
)

// 昵称词库
var (
	adjectives = []string{
		"勇敢的", "聪明的", "快乐的", "神秘的", "沉稳的",
		"机智的", "潇洒的", "淡定的", "傲娇的", "高冷的",
		"执着的", "冷静的", "犀利的", "从容的", "灵动的",
	}

	nouns = []string{
		"棋士", "棋侠", "棋仙", "棋童", "棋痴",
		"黑子", "白子", "小卒", "先手", "后手",
		"布局家", "收官手", "守角人", "抢点王", "连珠客",
	}
)

// GenerateNickname 生成随机昵称，昵称留空的玩家会用到
func GenerateNickname() string {
	adj := adjectives[rand.Intn(len(adjectives))]
	noun := nouns[rand.Intn(len(nouns))]
	return adj + noun
}
