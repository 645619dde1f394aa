package layout

// DefaultLayout is the built-in English QWERTY layout. It is used whenever
// no other layout source can be read or built.
const DefaultLayout = "" +
	"\tkeyboardKeyWidth 10 keyboardKeyWidth\t" +
	"\trow \t\tkeyboardMode0 true keyboardMode0\t" +
	"\t\tkey \t\t\tkeyEdgeFlags left keyEdgeFlags\t\t\t\tkeyLabel q keyLabel\t\t\t\tpopupCharacters 1 popupCharacters\t\t\t\tpopupKeyboard xml/keyboard_popup_template popupKeyboard\t\t\t\ttopSmallNumber 1 topSmallNumber\t\t\t key\t" +
	"\t\tkey \t\t\tkeyLabel w keyLabel\t\t\t\tpopupCharacters 2 popupCharacters\t\t\t\tpopupKeyboard xml/keyboard_popup_template popupKeyboard\t\t\t\ttopSmallNumber 2 topSmallNumber\t\t\t key\t" +
	"\t\tkey \t\t\tkeyLabel e keyLabel\t\t\t\tpopupCharacters éè3êëēę popupCharacters\t\t\t\tpopupKeyboard xml/keyboard_popup_template popupKeyboard\t\t\t\ttopSmallNumber 3 topSmallNumber\t\t\t key\t" +
	"\t\tkey \t\t\tkeyLabel r keyLabel\t\t\t\tpopupCharacters ř4ŕ popupCharacters\t\t\t\tpopupKeyboard xml/keyboard_popup_template popupKeyboard\t\t\t\ttopSmallNumber 4 topSmallNumber\t\t\t key\t" +
	"\t\tkey \t\t\tkeyLabel t keyLabel\t\t\t\tpopupCharacters 5ť popupCharacters\t\t\t\tpopupKeyboard xml/keyboard_popup_template popupKeyboard\t\t\t\ttopSmallNumber 5 topSmallNumber\t\t\t key\t" +
	"\t\tkey \t\t\tkeyLabel y keyLabel\t\t\t\tpopupCharacters ý6ÿ¥ popupCharacters\t\t\t\tpopupKeyboard xml/keyboard_popup_template popupKeyboard\t\t\t\ttopSmallNumber 6 topSmallNumber\t\t\t key\t" +
	"\t\tkey \t\t\tkeyLabel u keyLabel\t\t\t\tpopupCharacters űúù7üûū popupCharacters\t\t\t\tpopupKeyboard xml/keyboard_popup_template popupKeyboard\t\t\t\ttopSmallNumber 7 topSmallNumber\t\t\t key\t" +
	"\t\tkey \t\t\tkeyLabel i keyLabel\t\t\t\tpopupCharacters íìî8ïī popupCharacters\t\t\t\tpopupKeyboard xml/keyboard_popup_template popupKeyboard\t\t\t\ttopSmallNumber 8 topSmallNumber\t\t\t key\t" +
	"\t\tkey \t\t\tkeyLabel o keyLabel\t\t\t\tpopupCharacters őóôòõō9ö popupCharacters\t\t\t\tpopupKeyboard xml/keyboard_popup_template popupKeyboard\t\t\t\ttopSmallNumber 9 topSmallNumber\t\t\t key\t" +
	"\t\tkey \t\t\tkeyEdgeFlags right keyEdgeFlags\t\t\t\tkeyLabel p keyLabel\t\t\t\tpopupCharacters 0 popupCharacters\t\t\t\tpopupKeyboard xml/keyboard_popup_template popupKeyboard\t\t\t\ttopSmallNumber 0 topSmallNumber\t\t\t key\t" +
	"\t row\t" +
	"\trow \t\tkeyboardMode0 true keyboardMode0\t" +
	"\t\tkey \t\t\thGap% 5 hGap%\t\t\t\tkeyEdgeFlags left keyEdgeFlags\t\t\t\tkeyLabel a keyLabel\t\t\t\tpopupCharacters áäàâãåāæą popupCharacters\t\t\t\tpopupKeyboard xml/keyboard_popup_template popupKeyboard\t\t\t key\t" +
	"\t\tkey \t\t\tkeyLabel s keyLabel\t\t\t\tpopupCharacters śßš popupCharacters\t\t\t\tpopupKeyboard xml/keyboard_popup_template popupKeyboard\t\t\t key\t" +
	"\t\tkey \t\t\tkeyLabel d keyLabel\t\t\t\tpopupCharacters ďđ popupCharacters\t\t\t\tpopupKeyboard xml/keyboard_popup_template popupKeyboard\t\t\t key\t" +
	"\t\tkey \t\t\tkeyLabel f keyLabel\t\t\t\tpopupCharacters ₣ popupCharacters\t\t\t\tpopupKeyboard xml/keyboard_popup_template popupKeyboard\t\t\t key\t" +
	"\t\tkey \t\t\tkeyLabel g keyLabel\t\t\t key\t" +
	"\t\tkey \t\t\tkeyLabel h keyLabel\t\t\t key\t" +
	"\t\tkey \t\t\tkeyLabel j keyLabel\t\t\t key\t" +
	"\t\tkey \t\t\tkeyLabel k keyLabel\t\t\t key\t" +
	"\t\tkey \t\t\tkeyEdgeFlags right keyEdgeFlags\t\t\t\tkeyLabel l keyLabel\t\t\t\tpopupCharacters ĺľł popupCharacters\t\t\t\tpopupKeyboard xml/keyboard_popup_template popupKeyboard\t\t\t key\t" +
	"\t row\t" +
	"\trow \t\tkeyboardMode0 true keyboardMode0\t" +
	"\t\tkey \t\t\tcode -1 code\t\t\t\tkeyEdgeFlags left keyEdgeFlags\t\t\t\tkeyIcon ic_caps_outline_vector keyIcon\t\t\t\tkeyWidth 15 keyWidth\t\t\t key\t" +
	"\t\tkey \t\t\tkeyLabel z keyLabel\t\t\t\tpopupCharacters źžż popupCharacters\t\t\t\tpopupKeyboard xml/keyboard_popup_template popupKeyboard\t\t\t key\t" +
	"\t\tkey \t\t\tkeyLabel x keyLabel\t\t\t key\t" +
	"\t\tkey \t\t\tkeyLabel c keyLabel\t\t\t\tpopupCharacters çčć¢ popupCharacters\t\t\t\tpopupKeyboard xml/keyboard_popup_template popupKeyboard\t\t\t key\t" +
	"\t\tkey \t\t\tkeyLabel v keyLabel\t\t\t key\t" +
	"\t\tkey \t\t\tkeyLabel b keyLabel\t\t\t key\t" +
	"\t\tkey \t\t\tkeyLabel n keyLabel\t\t\t\tpopupCharacters ňńñ popupCharacters\t\t\t\tpopupKeyboard xml/keyboard_popup_template popupKeyboard\t\t\t key\t" +
	"\t\tkey \t\t\tkeyLabel m keyLabel\t\t\t key\t" +
	"\t\tkey \t\t\tcode -5 code\t\t\t\tisRepeatable true isRepeatable\t\t\t\tkeyEdgeFlags right keyEdgeFlags\t\t\t\tkeyIcon ic_clear_vector keyIcon\t\t\t\tkeyWidth 15 keyWidth\t\t\t key\t" +
	"\t row\t" +
	"\trow \t\tkeyboardMode0 true keyboardMode0\t\t\tkeyboardMode1 true keyboardMode1\t\t\tkeyboardMode2 true keyboardMode2\t" +
	"\t\tkey \t\t\tcode -2 code\t\t\t\tkeyEdgeFlags left keyEdgeFlags\t\t\t\tkeyLabel 123 keyLabel\t\t\t\tkeyWidth 15 keyWidth\t\t\t key\t" +
	"\t\tkey \t\t\tcode -3 code\t\t\t\tkeyLabel \U0001F30E keyLabel\t\t\t\tkeyWidth 10 keyWidth\t\t\t key\t" +
	"\t\tkey \t\t\tcode 32 code\t\t\t\tisRepeatable true isRepeatable\t\t\t\tkeyWidth 50 keyWidth\t\t\t key\t" +
	"\t\tkey \t\t\tkeyLabel . keyLabel\t\t\t\tkeyWidth 10 keyWidth\t\t\t key\t" +
	"\t\tkey \t\t\tcode -4 code\t\t\t\tkeyEdgeFlags right keyEdgeFlags\t\t\t\tkeyIcon ic_enter_vector keyIcon\t\t\t\tkeyWidth 15 keyWidth\t\t\t key\t" +
	"\t row\t"
