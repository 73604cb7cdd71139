package generator

import "fmt"

// firstScenePrompt は、参照画像なしで最初の挿絵を生成するための指示文を構築します。
// スタイル指示はプロンプトの末尾に連結します。
func firstScenePrompt(sentence, stylePrompt string) string {
	return fmt.Sprintf("A vibrant storybook illustration of: %s. %s", sentence, stylePrompt)
}

// continuationPrompt は、直前の挿絵を参照しながら次の場面を描かせる指示文を構築します。
// キャラクターと画風を引き継ぎつつ、新しい場面の動きと明確な視覚的進行を要求するのだ。
func continuationPrompt(sentence string) string {
	return fmt.Sprintf(
		"Using the provided image as a reference, keep the exact same characters and art style, "+
			"and illustrate the next scene of the story: %s. "+
			"Show clear visual progression from the reference image.",
		sentence,
	)
}
