package provider

import (
	"fmt"

	game "wordbridge/internal/game"
)

const generateSystemPromptChinese = `你是一个中文词语专家，擅长创建字词接龙游戏。

你的任务是生成一个字词接龙题目，包含三个汉字（字A、字B、答案），按 pattern 类型组合：

**Pattern 1 (A+答案, 答案+B)**: 字A+答案=词语1，答案+字B=词语2，答案在中间
**Pattern 2 (答案+A, B+答案)**: 答案+字A=词语1，字B+答案=词语2，答案在左右两边
**Pattern 3 (A+答案, B+答案)**: 字A+答案=词语1，字B+答案=词语2，答案在右侧

所有词语都应该是常见的、有意义的词。

难度等级（按教育阶段划分）：
- easy：小学1-6年级常见词语、日常生活用语
- medium：初中7-9年级词汇，包括基础成语和常用词组合
- hard：高中高级词汇、常见文言文词语、较深成语
- professional：大学常见词汇、高级成语、较深文化词语

词汇选择原则：符合对应教育阶段的认知水平；避免生僻字和晦涩词；
每次生成尽量选择不同领域的词汇，涵盖自然、人文、科技、生活、情感等主题。

请以JSON格式返回：
{
    "char1": "第一个字",
    "char2": "第二个字",
    "answer": "正确答案",
    "word1": "第一个词语",
    "word2": "第二个词语",
    "pattern": "pattern类型 (1, 2, 或 3)",
    "explanation": "简短解释",
    "difficulty": "实际难度等级"
}

重要: 只返回JSON，不要包含任何其他文字。`

const generateSystemPromptEnglish = `You are an expert in English word associations and Remote Associates Test (RAT) puzzle design.

Your task is to generate a word association puzzle with 4 words (Word A, B, C, and Answer D), where:
1. A + D can form a valid compound word or common phrase
2. B + D can form a valid compound word or common phrase
3. C + D can form a valid compound word or common phrase

Difficulty levels (by education stage):
- easy: common everyday words familiar to K-6 students (e.g. "sun-light", "rain-bow")
- medium: grade 7-9 vocabulary including common idioms (e.g. "heart-break", "water-fall")
- hard: grade 10-12 advanced vocabulary and expressions (e.g. "blood-stream", "moon-light")
- professional: college-level vocabulary and sophisticated expressions

Word selection principles: match the cognitive level of the stage; avoid
obscure or arcane words; vary domains each time (nature, humanities,
technology, life, emotions).

Return in JSON format:
{
    "word1": "First word",
    "word2": "Second word",
    "word3": "Third word",
    "answer": "The connecting word",
    "phrase1": "word1 + answer compound/phrase",
    "phrase2": "word2 + answer compound/phrase",
    "phrase3": "word3 + answer compound/phrase",
    "explanation": "Brief explanation",
    "difficulty": "Actual difficulty level"
}

Important: Return ONLY the JSON, no other text.`

const judgePromptChinese = `给定一个字词接龙题目和用户的答案，判断答案是否正确。

题目:
- 字1: %s
- 字2: %s
- 标准答案: %s
- 用户答案: %s

判断规则:
1. 如果用户答案与标准答案完全相同，返回正确
2. 如果用户答案能形成与标准答案不同但同样合理的组合（即 字1+用户答案 和 用户答案+字2 都能组成有效词语），也返回正确
3. 否则返回错误

请以JSON格式返回:
{
    "correct": true/false,
    "reason": "判断理由（简短说明）"
}

只返回JSON，不要其他文字。`

const judgePromptEnglish = `Given a word association puzzle and a user's answer, determine if the answer is correct.

Puzzle:
- Word 1: %s
- Word 2: %s
- Word 3: %s
- Correct Answer: %s
- User Answer: %s

Judgment rules:
1. If the user's answer exactly matches the correct answer, return correct
2. If the user's answer forms valid compound words/phrases with all three words (different from the standard answer but equally valid), also return correct
3. Otherwise return incorrect

Return in JSON format:
{
    "correct": true/false,
    "reason": "Brief explanation of the judgment"
}

Return ONLY the JSON, no other text.`

func generateUserPrompt(difficulty game.Difficulty, language game.Language, pattern int) string {
	if language == game.LanguageChinese {
		return fmt.Sprintf("请生成一个%s难度的中文字词接龙题目，使用Pattern %d。记住要确保词汇多样性。", difficulty, pattern)
	}
	return fmt.Sprintf("Generate an %s difficulty English word association puzzle. Remember to ensure vocabulary diversity.", difficulty)
}

func judgePrompt(p *game.Puzzle, answer string) string {
	if p.Language == game.LanguageChinese {
		return fmt.Sprintf(judgePromptChinese, p.Char1, p.Char2, p.Answer, answer)
	}
	return fmt.Sprintf(judgePromptEnglish, p.Word1, p.Word2, p.Word3, p.Answer, answer)
}
