package quiz

// Attempt markup as rendered by the Boost theme of Moodle 3.x.
const moodle3Multichoice = `<div id="q6" class="que multichoice deferredfeedback notyetanswered"><div class="info"><h3 class="no">Question <span class="qno">1</span></h3><div class="state">Not yet answered</div><div class="grade">Marked out of 1.00</div></div><div class="content"><div class="formulation clearfix"><h4 class="accesshide">Question text</h4><input type="hidden" name="q6:1_:sequencecheck" value="1" /><div class="qtext"><p>What is 2+2?</p></div><div class="ablock"><div class="prompt">Select one:</div><div class="answer"><div class="r0"><input type="radio" name="q6:1_answer" value="0" id="q6:1_answer0" /><label for="q6:1_answer0" class="ml-1"><span class="answernumber">a. </span>3</label> </div>
<div class="r1"><input type="radio" name="q6:1_answer" value="1" id="q6:1_answer1" /><label for="q6:1_answer1" class="ml-1"><span class="answernumber">b. </span>4</label> </div>
</div></div></div></div></div><script type="text/javascript">M.util.js_pending('core_question_engine'); var qtext = "<input type=\"radio\" value=\"9\">";</script>`

// Attempt markup as rendered by Moodle 4.x, with aria-labelledby labels and
// the hidden "clear my choice" radio.
const moodle4Multichoice = `<div id="question-7-2" class="que multichoice deferredfeedback notyetanswered"><div class="content"><div class="formulation clearfix"><h4 class="accesshide">Question text</h4><input type="hidden" name="q7:2_:sequencecheck" value="3" /><div class="qtext"><p dir="ltr">Which planet is <strong>largest</strong>?</p></div><fieldset class="ablock no-overflow visual-scroll-x"><legend class="prompt h6 font-weight-normal sr-only">Select one:</legend><div class="answer"><div class="r0"><input type="radio" name="q7:2_answer" value="0" id="q7:2_answer0" aria-labelledby="q7:2_answer0_label"><div class="d-flex w-auto" id="q7:2_answer0_label" data-region="answer-label"><span class="answernumber">a. </span><div class="flex-fill ml-1"><p dir="ltr">Mars</p></div></div></div><div class="r1"><input type="radio" name="q7:2_answer" value="1" id="q7:2_answer1" aria-labelledby="q7:2_answer1_label"><div class="d-flex w-auto" id="q7:2_answer1_label" data-region="answer-label"><span class="answernumber">b. </span><div class="flex-fill ml-1"><p dir="ltr">Jupiter</p></div></div></div></div><div id="q7:2_clearchoice" class="qtype_multichoice_clearchoice sr-only" aria-hidden="true"><input type="radio" name="q7:2_answer" id="q7:2_answer-1" value="-1" class="sr-only" aria-hidden="true" checked="checked"><label for="q7:2_answer-1"><a tabindex="-1" role="button" class="btn btn-link" href="#">Clear my choice</a></label></div></fieldset></div></div></div>`

// Two question blocks in one fragment.
const twoQuestions = `<div class="qtext"><p>First?</p></div><input type="radio" name="q1:1_answer" value="0" id="a0"><label for="a0"><span class="answernumber">a. </span>Yes</label><input type="radio" name="q1:1_answer" value="1" id="a1"><label for="a1"><span class="answernumber">b. </span>No</label>` +
	`<div class="qtext"><p>Second?</p></div><input type="radio" name="q1:2_answer" value="0" id="b0"><label for="b0"><span class="answernumber">a. </span>Left</label><input type="radio" name="q1:2_answer" value="1" id="b1"><label for="b1"><span class="answernumber">b. </span>Right</label>`

// The second block has no options at all.
const secondBlockBroken = `<div class="qtext"><p>First?</p></div><input type="radio" name="q1:1_answer" value="0" id="a0"><label for="a0"><span class="answernumber">a. </span>Yes</label>` +
	`<div class="qtext"><p>Second?</p></div><p>nothing to choose</p>`

// A multiple-answer question: one checkbox field per choice, every checked value is 1.
const multipleAnswers = `<div class="qtext"><p>Pick the gas giants</p></div><div class="answer"><div class="r0"><input type="hidden" name="q1:1_choice0" value="0" /><input type="checkbox" name="q1:1_choice0" value="1" id="q1:1_choice0" /><label for="q1:1_choice0"><span class="answernumber">a. </span>A</label></div>` +
	`<div class="r1"><input type="hidden" name="q1:1_choice1" value="0" /><input type="checkbox" name="q1:1_choice1" value="1" id="q1:1_choice1" /><label for="q1:1_choice1"><span class="answernumber">b. </span>B</label></div></div>`

// Two radio options carrying the same value.
const repeatedValue = `<div class="qtext"><p>Q?</p></div><input type="radio" name="q1:1_answer" value="1" id="a"><label for="a"><span class="answernumber">a. </span>A</label>` +
	`<input type="radio" name="q1:1_answer" value="1" id="b"><label for="b"><span class="answernumber">b. </span>B</label>`
